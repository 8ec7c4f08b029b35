package types

import (
	"strings"
)

// Identifier is an interned name. Unquoted names are case folded; quoted names are kept
// as written. Reserved words have negative values.
type Identifier int

const MaxIdentifier = 128

const (
	ACCU Identifier = iota + 1
	ACCUMULATE
	APPEND
	BY
	CALC
	COLUMN
	CREATE
	EVALUATE
	FINALIZE
	FROM
	INIT
	INSERT
	INTO
	KEY
	LINK
	REMOVE
	ROW
	ROWS
	SET
	SHOW
	STATUS
	TABLE
	TABLES
	TO
	USING
	VALUES
	WHERE
)

const (
	AND Identifier = -(iota + 1)
	FALSE
	NOT
	NULL
	OR
	OUT
	TRUE
)

var knownIdentifiers = map[string]Identifier{
	"accu":       ACCU,
	"accumulate": ACCUMULATE,
	"append":     APPEND,
	"by":         BY,
	"calc":       CALC,
	"column":     COLUMN,
	"create":     CREATE,
	"evaluate":   EVALUATE,
	"finalize":   FINALIZE,
	"from":       FROM,
	"init":       INIT,
	"insert":     INSERT,
	"into":       INTO,
	"key":        KEY,
	"link":       LINK,
	"remove":     REMOVE,
	"row":        ROW,
	"rows":       ROWS,
	"set":        SET,
	"show":       SHOW,
	"status":     STATUS,
	"table":      TABLE,
	"tables":     TABLES,
	"to":         TO,
	"using":      USING,
	"values":     VALUES,
	"where":      WHERE,
}

var knownKeywords = map[string]Identifier{
	"AND":   AND,
	"FALSE": FALSE,
	"NOT":   NOT,
	"NULL":  NULL,
	"OR":    OR,
	"OUT":   OUT,
	"TRUE":  TRUE,
}

var (
	lastIdentifier = Identifier(9999)
	identifiers    = make(map[string]Identifier)
	names          = make(map[Identifier]string)
)

func intern(s string) Identifier {
	if id, found := identifiers[s]; found {
		return id
	}
	lastIdentifier += 1
	identifiers[s] = lastIdentifier
	names[lastIdentifier] = s
	return lastIdentifier
}

// ID returns the identifier for an unquoted name: keywords are recognized and the name
// is case folded.
func ID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}

	if id, found := knownKeywords[strings.ToUpper(s)]; found {
		return id
	}
	return intern(strings.ToLower(s))
}

// QuotedID returns the identifier for a quoted name; it is never a keyword.
func QuotedID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}
	return intern(s)
}

func (id Identifier) String() string {
	return names[id]
}

func (id Identifier) IsReserved() bool {
	return id < 0
}

func init() {
	for s, id := range knownIdentifiers {
		identifiers[s] = id
		names[id] = s
	}
	for s, id := range knownKeywords {
		names[id] = s
	}
}
