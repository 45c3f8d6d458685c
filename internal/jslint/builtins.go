package jslint

// latestEdition is the newest edition the syntax gate knows about.
const latestEdition = 2022

// builtin globals are read-only; each entry is the first edition that has it.
var builtins = map[string]int{
	// ES3/ES5
	"Array": 3, "Boolean": 3, "constructor": 3, "Date": 3, "decodeURI": 3,
	"decodeURIComponent": 3, "encodeURI": 3, "encodeURIComponent": 3,
	"Error": 3, "escape": 3, "eval": 3, "EvalError": 3, "Function": 3,
	"hasOwnProperty": 3, "Infinity": 3, "isFinite": 3, "isNaN": 3,
	"isPrototypeOf": 3, "Math": 3, "NaN": 3, "Number": 3, "Object": 3,
	"parseFloat": 3, "parseInt": 3, "propertyIsEnumerable": 3,
	"RangeError": 3, "ReferenceError": 3, "RegExp": 3, "String": 3,
	"SyntaxError": 3, "toLocaleString": 3, "toString": 3, "TypeError": 3,
	"undefined": 3, "unescape": 3, "URIError": 3, "valueOf": 3,
	"JSON": 5,

	// ES2015
	"ArrayBuffer": 2015, "DataView": 2015, "Float32Array": 2015,
	"Float64Array": 2015, "Int16Array": 2015, "Int32Array": 2015,
	"Int8Array": 2015, "Map": 2015, "Promise": 2015, "Proxy": 2015,
	"Reflect": 2015, "Set": 2015, "Symbol": 2015, "Uint16Array": 2015,
	"Uint32Array": 2015, "Uint8Array": 2015, "Uint8ClampedArray": 2015,
	"WeakMap": 2015, "WeakSet": 2015,

	// ES2017
	"Atomics": 2017, "SharedArrayBuffer": 2017,

	// ES2020
	"BigInt": 2020, "BigInt64Array": 2020, "BigUint64Array": 2020, "globalThis": 2020,

	// ES2021
	"AggregateError": 2021, "FinalizationRegistry": 2021, "WeakRef": 2021,
}

// builtinFor reports whether name is a built-in global of the given edition.
func builtinFor(name string, edition int) bool {
	since, ok := builtins[name]
	return ok && since <= edition
}

// LatestEdition is the newest ECMAScript edition the parser gate accepts.
func LatestEdition() int { return latestEdition }
