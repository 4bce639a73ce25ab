package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go-reliefdesk/types"
)

type Kind int

const (
	NoMatch Kind = iota
	UpdateOne
	UpdateAll
)

func (k Kind) String() string {
	switch k {
	case UpdateOne:
		return "UPDATE_RESOURCE"
	case UpdateAll:
		return "UPDATE_ALL_RESOURCES"
	default:
		return "NO_MATCH"
	}
}

// Intent is a parsed resource update. Name is only set for UpdateOne.
type Intent struct {
	Kind     Kind
	Name     string
	Quantity int
}

var none = Intent{Kind: NoMatch}

var (
	directAll    = regexp.MustCompile(`(?i)(?:set|update)\s+(?:all|every)\s+resources\s+(?:to|at)\s+(\d+)`)
	directSingle = regexp.MustCompile(`(?i)(?:set|update)\s+([a-zA-Z][\w\s-]+?)\s+(?:to|at)\s+(\d+)`)

	actionSingle = regexp.MustCompile(`UPDATE_RESOURCE\(resourceName:\s*"([^"]+)",\s*newQuantity:\s*(\d+)\)`)
	actionAll    = regexp.MustCompile(`UPDATE_ALL_RESOURCES\(newQuantity:\s*(\d+)\)`)
)

// ParseDirect matches plain instructions such as "set water to 50" or
// "update all resources at 0".
func ParseDirect(text string) Intent {
	if m := directAll.FindStringSubmatch(text); m != nil {
		return updateAll(m[1])
	}
	if m := directSingle.FindStringSubmatch(text); m != nil {
		return updateOne(m[1], m[2])
	}
	return none
}

// ParseAction matches the tagged actions the assistant is asked to reply with.
func ParseAction(text string) Intent {
	if m := actionSingle.FindStringSubmatch(text); m != nil {
		return updateOne(m[1], m[2])
	}
	if m := actionAll.FindStringSubmatch(text); m != nil {
		return updateAll(m[1])
	}
	return none
}

func updateAll(qty string) Intent {
	n, err := strconv.Atoi(qty)
	if err != nil {
		return none
	}
	return Intent{Kind: UpdateAll, Quantity: n}
}

func updateOne(name, qty string) Intent {
	n, err := strconv.Atoi(qty)
	if err != nil {
		return none
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return none
	}
	return Intent{Kind: UpdateOne, Name: name, Quantity: n}
}

func (i Intent) Matched() bool { return i.Kind != NoMatch }

// Apply returns a copy of rs with the update applied to quantity and stock.
// Resource names compare case-insensitively.
func (i Intent) Apply(rs []types.Resource) []types.Resource {
	out := make([]types.Resource, len(rs))
	for j, r := range rs {
		switch {
		case i.Kind == UpdateAll:
			r = r.WithQuantity(i.Quantity)
		case i.Kind == UpdateOne && strings.EqualFold(r.Name, i.Name):
			r = r.WithQuantity(i.Quantity)
		}
		out[j] = r
	}
	return out
}

// Confirmation is the reply shown after the intent was applied to the named disaster.
func (i Intent) Confirmation(disaster string) string {
	if i.Kind == UpdateAll {
		return fmt.Sprintf("Updated all resources to %d for %s.", i.Quantity, disaster)
	}
	return fmt.Sprintf("Updated %s to %d for %s.", i.Name, i.Quantity, disaster)
}
