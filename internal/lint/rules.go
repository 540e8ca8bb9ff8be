package lint

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/fulmenhq/specex/internal/rdf"
)

type languageRule struct{}

func (languageRule) Name() string { return "language-tag" }

func (languageRule) Check(q rdf.Quad, emit Emit) {
	o := q.Object
	if o.Kind != rdf.KindLiteral || o.Language == "" {
		return
	}
	if _, err := language.Parse(o.Language); err != nil {
		emit(KindLiteral, o.String(), fmt.Sprintf("invalid language tag %q", o.Language))
	}
}

var (
	integerForm  = regexp.MustCompile(`^[+-]?\d+$`)
	decimalForm  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	dateForm     = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`)
	timeForm     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	dateTimeForm = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	durationForm = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
	dayTimeForm  = regexp.MustCompile(`^-?P(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
	yearMonForm  = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?$`)
	gYearForm    = regexp.MustCompile(`^-?\d{4,}(Z|[+-]\d{2}:\d{2})?$`)
	ncNameForm   = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_.\-]*$`)
	nameForm     = regexp.MustCompile(`^[\p{L}_:][\p{L}\p{N}_:.\-]*$`)
	nmtokenForm  = regexp.MustCompile(`^[\p{L}\p{N}_:.\-]+$`)
	qnameForm    = regexp.MustCompile(`^([\p{L}_][\p{L}\p{N}_.\-]*:)?[\p{L}_][\p{L}\p{N}_.\-]*$`)
)

// xsdLexical validates lexical forms by local name. A nil checker accepts
// any form.
var xsdLexical = map[string]func(string) bool{
	"string":             nil,
	"normalizedString":   nil,
	"token":              nil,
	"language":           func(s string) bool { _, err := language.Parse(s); return err == nil },
	"anyURI":             nil,
	"boolean":            oneOf("true", "false", "1", "0"),
	"integer":            integerForm.MatchString,
	"int":                boundedInt(32),
	"long":               boundedInt(64),
	"short":              boundedInt(16),
	"byte":               boundedInt(8),
	"nonNegativeInteger": signedInteger(func(n *big.Int) bool { return n.Sign() >= 0 }),
	"positiveInteger":    signedInteger(func(n *big.Int) bool { return n.Sign() > 0 }),
	"negativeInteger":    signedInteger(func(n *big.Int) bool { return n.Sign() < 0 }),
	"nonPositiveInteger": signedInteger(func(n *big.Int) bool { return n.Sign() <= 0 }),
	"decimal":            decimalForm.MatchString,
	"double":             floating,
	"float":              floating,
	"date":               dateForm.MatchString,
	"time":               timeForm.MatchString,
	"dateTime":           validDateTime,
	"dateTimeStamp":      validDateTime,
	"duration":           duration(durationForm),
	"dayTimeDuration":    duration(dayTimeForm),
	"yearMonthDuration":  duration(yearMonForm),
	"unsignedLong":       boundedUint(64),
	"unsignedInt":        boundedUint(32),
	"unsignedShort":      boundedUint(16),
	"unsignedByte":       boundedUint(8),
	"Name":               nameForm.MatchString,
	"NCName":             ncNameForm.MatchString,
	"ID":                 ncNameForm.MatchString,
	"IDREF":              ncNameForm.MatchString,
	"IDREFS":             list(ncNameForm.MatchString),
	"ENTITY":             ncNameForm.MatchString,
	"ENTITIES":           list(ncNameForm.MatchString),
	"NMTOKEN":            nmtokenForm.MatchString,
	"NMTOKENS":           list(nmtokenForm.MatchString),
	"QName":              qnameForm.MatchString,
	"NOTATION":           qnameForm.MatchString,
	"gYear":              gYearForm.MatchString,
	"gYearMonth":         nil,
	"gMonthDay":          nil,
	"gDay":               nil,
	"gMonth":             nil,
	"hexBinary":          regexp.MustCompile(`^([0-9a-fA-F]{2})*$`).MatchString,
	"base64Binary":       nil,
}

func oneOf(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func boundedInt(bits int) func(string) bool {
	return func(s string) bool {
		_, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, bits)
		return err == nil
	}
}

func boundedUint(bits int) func(string) bool {
	return func(s string) bool {
		if s == "-0" {
			return true
		}
		_, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits)
		return err == nil
	}
}

// duration rejects the forms the pattern allows but XML Schema does not:
// a bare P and a T with no time part.
func duration(form *regexp.Regexp) func(string) bool {
	return func(s string) bool {
		return strings.TrimPrefix(s, "-") != "P" && !strings.HasSuffix(s, "T") && form.MatchString(s)
	}
}

func list(item func(string) bool) func(string) bool {
	return func(s string) bool {
		fields := strings.Fields(s)
		for _, f := range fields {
			if !item(f) {
				return false
			}
		}
		return len(fields) > 0
	}
}

func signedInteger(ok func(*big.Int) bool) func(string) bool {
	return func(s string) bool {
		if !integerForm.MatchString(s) {
			return false
		}
		n, valid := new(big.Int).SetString(strings.TrimPrefix(s, "+"), 10)
		return valid && ok(n)
	}
}

func floating(s string) bool {
	switch s {
	case "INF", "-INF", "+INF", "NaN":
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil && !strings.ContainsAny(s, "xXpP_")
}

func validDateTime(s string) bool {
	if !dateTimeForm.MatchString(s) {
		return false
	}
	layout := "2006-01-02T15:04:05"
	if strings.HasSuffix(s, "Z") || len(s) > 19 && strings.ContainsAny(s[19:], "+-") {
		layout = time.RFC3339Nano
	}
	_, err := time.Parse(layout, s)
	return err == nil
}

type datatypeRule struct{}

func (datatypeRule) Name() string { return "datatype" }

func (datatypeRule) Check(q rdf.Quad, emit Emit) {
	o := q.Object
	if o.Kind != rdf.KindLiteral || !strings.HasPrefix(o.Datatype, rdf.XSDNamespace) {
		return
	}
	local := strings.TrimPrefix(o.Datatype, rdf.XSDNamespace)
	check, known := xsdLexical[local]
	switch {
	case !known:
		emit(KindDatatype, o.Datatype, "unknown XML Schema datatype")
	case check != nil && !check(o.Value):
		emit(KindLiteral, o.String(), fmt.Sprintf("invalid lexical form for %s", "xsd:"+local))
	}
}

type directionRule struct{}

func (directionRule) Name() string { return "i18n-direction" }

func (directionRule) Check(q rdf.Quad, emit Emit) {
	o := q.Object
	if o.Kind != rdf.KindLiteral || !strings.HasPrefix(o.Datatype, rdf.I18NNamespace) {
		return
	}
	local := strings.TrimPrefix(o.Datatype, rdf.I18NNamespace)
	i := strings.LastIndex(local, "_")
	if i < 0 {
		emit(KindDatatype, o.Datatype, "i18n datatype lacks a direction")
		return
	}
	lang, dir := local[:i], local[i+1:]
	if dir != "ltr" && dir != "rtl" {
		emit(KindDatatype, o.Datatype, fmt.Sprintf("invalid base direction %q", dir))
	}
	if lang != "" {
		if _, err := language.Parse(lang); err != nil {
			emit(KindDatatype, o.Datatype, fmt.Sprintf("invalid language tag %q", lang))
		}
	}
}

var rdfProperties = map[string]bool{
	"type": true, "subject": true, "predicate": true, "object": true,
	"value": true, "first": true, "rest": true, "direction": true, "language": true,
}

var rdfClasses = map[string]bool{
	"Property": true, "Statement": true, "List": true, "Bag": true, "Seq": true,
	"Alt": true, "nil": true, "XMLLiteral": true, "HTML": true, "langString": true,
	"JSON": true, "PlainLiteral": true, "CompoundLiteral": true,
}

type vocabularyRule struct{}

func (vocabularyRule) Name() string { return "rdf-vocabulary" }

func (vocabularyRule) Check(q rdf.Quad, emit Emit) {
	if local, ok := rdfLocal(q.Predicate); ok && !rdfProperties[local] && !isMembership(local) {
		emit(KindProperty, q.Predicate.Value, "not defined in the RDF vocabulary")
	}
	if q.Predicate.Value == rdf.RDFType {
		if local, ok := rdfLocal(q.Object); ok && !rdfClasses[local] {
			emit(KindClass, q.Object.Value, "not defined in the RDF vocabulary")
		}
	}
	if q.Object.Kind == rdf.KindLiteral && strings.HasPrefix(q.Object.Datatype, rdf.RDFNamespace) {
		local := strings.TrimPrefix(q.Object.Datatype, rdf.RDFNamespace)
		if !rdfClasses[local] {
			emit(KindDatatype, q.Object.Datatype, "not defined in the RDF vocabulary")
		}
	}
}

func rdfLocal(t rdf.Term) (string, bool) {
	if t.Kind != rdf.KindIRI || !strings.HasPrefix(t.Value, rdf.RDFNamespace) {
		return "", false
	}
	return strings.TrimPrefix(t.Value, rdf.RDFNamespace), true
}

// isMembership matches rdf:_1, rdf:_2 and so on.
func isMembership(local string) bool {
	if !strings.HasPrefix(local, "_") {
		return false
	}
	n, err := strconv.Atoi(local[1:])
	return err == nil && n > 0
}

type typeRule struct{}

func (typeRule) Name() string { return "type-object" }

func (typeRule) Check(q rdf.Quad, emit Emit) {
	if q.Predicate.Value == rdf.RDFType && q.Object.Kind == rdf.KindLiteral {
		emit(KindProperty, rdf.RDFType, fmt.Sprintf("object %s is a literal, expected a class", q.Object))
	}
}
