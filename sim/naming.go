package sim

import (
	"strconv"
	"strings"
)

// Named is an object that has a hierarchical name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is organized as dot-separated elements (e.g., "Bus.AW"). Each
// element must be non-empty, must start with a capital letter, and must not
// contain underscores, quotes, or dashes. Elements in a series use
// square-bracket indices (e.g., "Bus.Stage[2]").
func NameMustBeValid(name string) {
	tokens := strings.Split(name, ".")
	for _, token := range tokens {
		tokenMustBeValid(name, token)
	}
}

func tokenMustBeValid(name, token string) {
	elem := token
	if i := strings.Index(token, "["); i >= 0 {
		elem = token[:i]
		indexMustBeValid(name, token[i:])
	}

	if elem == "" {
		panic("Name " + name + " is not valid: element must not be empty")
	}

	for _, c := range []string{"_", "\"", "'", "-"} {
		if strings.Contains(elem, c) {
			panic("Name " + name + " is not valid: element must not contain " + c)
		}
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		panic("Name " + name +
			" is not valid: element must start with a capital letter")
	}
}

func indexMustBeValid(name, index string) {
	if !strings.HasPrefix(index, "[") || !strings.HasSuffix(index, "]") {
		panic("Name " + name + " is not valid: index bracket must match")
	}

	for _, part := range strings.Split(index[1:len(index)-1], "][") {
		if _, err := strconv.Atoi(part); err != nil {
			panic("Name " + name + " is not valid: index must be integer")
		}
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name, and
// an index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
