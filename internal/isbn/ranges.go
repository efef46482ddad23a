package isbn

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// rangeMessage is the International ISBN Agency range message
// (RangeMessage.xml export) the package hyphenates with by default.
//
//go:embed RangeMessage.xml
var rangeMessage []byte

// rangeMessageXML mirrors the parts of the agency export used here.
type rangeMessageXML struct {
	Source   string       `xml:"MessageSource"`
	Serial   string       `xml:"MessageSerialNumber"`
	Date     string       `xml:"MessageDate"`
	Prefixes []ruleSetXML `xml:"EAN.UCCPrefixes>EAN.UCC"`
	Groups   []ruleSetXML `xml:"RegistrationGroups>Group"`
}

type ruleSetXML struct {
	Prefix string    `xml:"Prefix"`
	Agency string    `xml:"Agency"`
	Rules  []ruleXML `xml:"Rules>Rule"`
}

type ruleXML struct {
	Range  string `xml:"Range"`
	Length int    `xml:"Length"`
}

// rule maps a 7-digit window to an element length. Length 0 marks an
// unassigned range.
type rule struct {
	lo, hi int
	length int
}

type ruleSet struct {
	agency string
	rules  []rule
}

// lengthOf returns the element length for the 7 digits starting at tail,
// right-padded with zeros.
func (s ruleSet) lengthOf(tail string) int {
	window, err := strconv.Atoi((tail + "0000000")[:7])
	if err != nil {
		return 0
	}
	for _, r := range s.rules {
		if window >= r.lo && window <= r.hi {
			return r.length
		}
	}
	return 0
}

// RangeTable holds the registration group and registrant ranges of one
// agency range message.
type RangeTable struct {
	Serial string
	Date   string

	prefixes map[string]ruleSet // "978"
	groups   map[string]ruleSet // "978-0"
}

// ParseRangeMessage decodes an International ISBN Agency RangeMessage.xml.
func ParseRangeMessage(r io.Reader) (*RangeTable, error) {
	var msg rangeMessageXML
	if err := xml.NewDecoder(r).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode range message: %w", err)
	}
	if len(msg.Prefixes) == 0 || len(msg.Groups) == 0 {
		return nil, fmt.Errorf("range message has no prefixes or groups")
	}

	t := &RangeTable{
		Serial:   msg.Serial,
		Date:     msg.Date,
		prefixes: make(map[string]ruleSet, len(msg.Prefixes)),
		groups:   make(map[string]ruleSet, len(msg.Groups)),
	}
	for _, p := range msg.Prefixes {
		set, err := toRuleSet(p)
		if err != nil {
			return nil, err
		}
		t.prefixes[p.Prefix] = set
	}
	for _, g := range msg.Groups {
		set, err := toRuleSet(g)
		if err != nil {
			return nil, err
		}
		t.groups[g.Prefix] = set
	}
	return t, nil
}

// LoadRangeFile reads a RangeMessage.xml from disk, e.g. a newer export
// than the embedded one.
func LoadRangeFile(path string) (*RangeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRangeMessage(f)
}

func toRuleSet(s ruleSetXML) (ruleSet, error) {
	set := ruleSet{agency: s.Agency, rules: make([]rule, 0, len(s.Rules))}
	for _, r := range s.Rules {
		lo, hi, ok := strings.Cut(strings.TrimSpace(r.Range), "-")
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if !ok || err1 != nil || err2 != nil || len(lo) != 7 || len(hi) != 7 || l > h {
			return ruleSet{}, fmt.Errorf("bad range %q under %s", r.Range, s.Prefix)
		}
		set.rules = append(set.rules, rule{lo: l, hi: h, length: r.Length})
	}
	return set, nil
}

// split breaks a compact ISBN into prefix, group, registrant, publication
// and check digit. ISBN-10 values are looked up under 978 and get an empty
// prefix. ok is false when the table has no rule for the value.
func (t *RangeTable) split(c string) (parts [5]string, agency string, ok bool) {
	var prefix, body string
	switch len(c) {
	case 13:
		prefix, body = c[:3], c[3:12]
	case 10:
		prefix, body = "978", c[:9]
	default:
		return parts, "", false
	}

	p, found := t.prefixes[prefix]
	if !found {
		return parts, "", false
	}
	gl := p.lengthOf(body)
	if gl == 0 || gl >= len(body) {
		return parts, "", false
	}

	g, found := t.groups[prefix+"-"+body[:gl]]
	if !found {
		return parts, "", false
	}
	rl := g.lengthOf(body[gl:])
	if rl == 0 || gl+rl >= len(body) {
		return parts, "", false
	}

	if len(c) == 13 {
		parts[0] = prefix
	}
	parts[1], parts[2], parts[3] = body[:gl], body[gl:gl+rl], body[gl+rl:]
	parts[4] = c[len(c)-1:]
	return parts, g.agency, true
}

// Hyphenate inserts separators into a compact, valid ISBN. When the table
// has no rule for the value the compact form is returned.
func (t *RangeTable) Hyphenate(c string) string {
	parts, _, ok := t.split(c)
	if !ok {
		return c
	}
	if parts[0] == "" {
		return strings.Join(parts[1:], "-")
	}
	return strings.Join(parts[:], "-")
}

// Agency returns the registration group agency of a compact ISBN, e.g.
// "English language" or "Italy", or "" when unknown.
func (t *RangeTable) Agency(c string) string {
	_, agency, _ := t.split(c)
	return agency
}

var current atomic.Pointer[RangeTable]

func init() {
	t, err := ParseRangeMessage(bytes.NewReader(rangeMessage))
	if err != nil {
		panic("isbn: embedded range message: " + err.Error())
	}
	current.Store(t)
}

// DefaultRanges returns the table used by Parse and Hyphenate.
func DefaultRanges() *RangeTable {
	return current.Load()
}

// UseRanges replaces the table used by Parse and Hyphenate. A nil table
// restores the embedded one.
func UseRanges(t *RangeTable) {
	if t == nil {
		t, _ = ParseRangeMessage(bytes.NewReader(rangeMessage))
	}
	current.Store(t)
}

// Hyphenate inserts separators into a compact, valid ISBN using the
// current range table.
func Hyphenate(c string) string {
	return current.Load().Hyphenate(c)
}
