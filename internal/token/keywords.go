package token

var keywords = map[string]Kind{
	"import":   KwImport,
	"type":     KwType,
	"is":       KwIs,
	"where":    KwWhere,
	"function": KwFunction,
	"requires": KwRequires,
	"ensures":  KwEnsures,
	"assert":   KwAssert,
	"assume":   KwAssume,
	"print":    KwPrint,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"true":     KwTrue,
	"false":    KwFalse,
	"result":   KwResult,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
