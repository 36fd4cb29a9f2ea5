package codegen

import (
	"strconv"
	"strings"
	"unicode"
)

var csharpKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true, "default": true,
	"delegate": true, "do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true, "finally": true,
	"fixed": true, "float": true, "for": true, "foreach": true, "goto": true,
	"if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true, "out": true,
	"override": true, "params": true, "private": true, "protected": true, "public": true,
	"readonly": true, "ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r)) {
		return true
	}
	return !first && r < unicode.MaxASCII && unicode.IsDigit(r)
}

// snakeIdentifier keeps ASCII letters, digits and underscores, replacing
// anything else with an underscore. The result never starts with a digit.
func snakeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isIdentRune(r, false) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if !isIdentRune(rune(out[0]), true) {
		out = "_" + out
	}
	return out
}

// pascalIdentifier joins the alphanumeric words of s, capitalizing each.
// "enemy stats-v2" becomes "EnemyStatsV2".
func pascalIdentifier(s, fallback string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	out := b.String()
	if out == "" {
		return fallback
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// csharpIdentifier is snakeIdentifier with keywords escaped by '@'
func csharpIdentifier(s string) string {
	out := snakeIdentifier(s)
	if csharpKeywords[out] {
		return "@" + out
	}
	return out
}

// csharpString escapes s for a regular C# string literal
func csharpString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
}

// uniqueNames appends _2, _3, ... to names that were already taken.
type uniqueNames map[string]int

func (u uniqueNames) claim(name string) string {
	key := strings.TrimPrefix(name, "@")
	u[key]++
	if n := u[key]; n > 1 {
		candidate := key + "_" + strconv.Itoa(n)
		for u[candidate] > 0 {
			u[key]++
			candidate = key + "_" + strconv.Itoa(u[key])
		}
		u[candidate]++
		return candidate
	}
	return name
}
