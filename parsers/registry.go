package parsers

import "github.com/zoobzio/knex"

// Definitions lists every transform in this package.
func Definitions() []knex.Definition {
	return []knex.Definition{
		// General.
		knex.Define[Append](knex.CategoryGeneral, "Append a suffix to a string"),
		knex.Define[Count](knex.CategoryGeneral, "Number of elements in a list, keys in a mapping or characters in a string"),
		knex.Define[FirstElement](knex.CategoryGeneral, "First element of a list"),
		knex.Define[GetField](knex.CategoryGeneral, "Value of a field in a mapping"),
		knex.Define[GetIndex](knex.CategoryGeneral, "Element at an index of a list or string"),
		knex.Define[IndexOf](knex.CategoryGeneral, "Position of a value in a list, or -1"),
		knex.Define[Join](knex.CategoryGeneral, "Join a list of strings with a delimiter"),
		knex.Define[LastElement](knex.CategoryGeneral, "Last element of a list"),
		knex.Define[ReverseList](knex.CategoryGeneral, "Reversed copy of a list"),

		// String.
		knex.Define[Base64Decode](knex.CategoryString, "Decode base64 into a string"),
		knex.Define[Base64Encode](knex.CategoryString, "Encode a string as base64"),
		knex.Define[Concat](knex.CategoryString, "Wrap a string between a prefix and a suffix"),
		knex.Define[DumpJSON](knex.CategoryString, "Serialise a value as JSON"),
		knex.Define[Length](knex.CategoryString, "Number of characters in a string"),
		knex.Define[LoadJSON](knex.CategoryString, "Parse a JSON document"),
		knex.Define[RegexExtractAll](knex.CategoryString, "All matches of a regular expression"),
		knex.Define[Split](knex.CategoryString, "Split a string on a delimiter"),
		knex.Define[ToLower](knex.CategoryString, "Lower-case a string"),
		knex.Define[ToUpper](knex.CategoryString, "Upper-case a string"),
		knex.Define[Trim](knex.CategoryString, "Strip characters from both ends of a string"),
		knex.Define[YamlDumps](knex.CategoryString, "Serialise a value as YAML"),
		knex.Define[YamlLoads](knex.CategoryString, "Parse a YAML document"),

		// Other.
		knex.Define[IPNetwork](knex.CategoryOther, "Network of an address in CIDR notation"),
		knex.Define[MacAddress](knex.CategoryOther, "Format a MAC address in a dialect"),
		knex.Define[TextFSMParse](knex.CategoryOther, "Parse text with a TextFSM template"),
		knex.Define[URLDecode](knex.CategoryOther, "Decode a URL query-escaped string"),
		knex.Define[URLEncode](knex.CategoryOther, "Query-escape a string for URLs"),
	}
}

// Registry returns a registry holding every transform in this package
// plus Start and End.
func Registry() *knex.Registry {
	return knex.NewRegistry(Definitions()...)
}
