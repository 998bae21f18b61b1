package pydm

import (
	"encoding/json"
	"strings"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/sliceedit"
	"github.com/pkg/errors"
)

// RuleChannel is one input of a rule.
type RuleChannel struct {
	Channel string `json:"channel"`
	Trigger bool   `json:"trigger"`
}

// Rule drives a property of a widget from an expression over channel values.
type Rule struct {
	Name       string        `json:"name"`
	Property   string        `json:"property"`
	Channels   []RuleChannel `json:"channels"`
	Expression string        `json:"expression"`
}

var ruleChannelKeys = [...]string{"chan", "chanB", "chanC", "chanD"}

// visibilityRule returns the rule equivalent to the visibility mode of a
// dynamic attribute block, or nil when the widget is always visible.
func (t *Translator) visibilityRule(dyn medm.BlockID) (*Rule, error) {
	vis := t.value(dyn, "vis")
	if vis == "" || vis == "static" {
		return nil, nil
	}

	// Rule channels are written without the protocol prefix
	rule := &Rule{Name: "rule_0", Property: "Visible"}
	for _, key := range ruleChannelKeys {
		if ch := sliceedit.ConvertMacros(strings.TrimSpace(t.value(dyn, key))); ch != "" {
			rule.Channels = append(rule.Channels, RuleChannel{Channel: ch, Trigger: true})
		}
	}
	if len(rule.Channels) == 0 {
		return nil, errors.Errorf("visibility %q without a channel", vis)
	}

	switch vis {
	case "if zero":
		rule.Expression = "ch[0] == 0"
	case "if not zero":
		rule.Expression = "ch[0] != 0"
	case "calc":
		calc := t.value(dyn, "calc")
		if calc == "" {
			return nil, errors.New("visibility calc without an expression")
		}
		rule.Expression = ConvertCalc(calc)
	default:
		return nil, errors.Errorf("unknown visibility %q", vis)
	}
	return rule, nil
}

// applyDynamic sets the properties driven by the dynamic attribute of a
// widget: the visibility rule and the alarm sensitivity.
func (t *Translator) applyDynamic(w *Widget, id medm.BlockID) error {
	dyn := t.attribute(id, medm.KindDynamicAttribute)
	if dyn == medm.NoBlock {
		return nil
	}

	if t.value(dyn, "clr") == "alarm" {
		w.SetCustom("alarmSensitiveContent", NewBool(true))
	}

	rule, err := t.visibilityRule(dyn)
	if err != nil {
		return err
	}
	if rule == nil {
		return nil
	}
	text, err := EncodeRules([]Rule{*rule})
	if err != nil {
		return err
	}
	w.SetCustom("rules", NewString(text))
	return nil
}

// EncodeRules returns the JSON form PyDM expects in the rules property.
func EncodeRules(rules []Rule) (string, error) {
	return encodeJSON(rules)
}

// encodeJSON marshals v without escaping the comparison operators that
// appear in expressions.
func encodeJSON(v any) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encoding json")
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// ConvertCalc rewrites an MEDM CALC expression into a PyDM rule expression.
// The inputs A to D become ch[0] to ch[3], '=' becomes '==' and '#' becomes
// '!='. Other operators and function names are kept.
func ConvertCalc(calc string) string {
	var sb strings.Builder
	prev := byte(0)

	for i := 0; i < len(calc); i++ {
		c := calc[i]

		switch {
		case isLetter(c):
			j := i
			for j < len(calc) && (isLetter(calc[j]) || isDigit(calc[j]) || calc[j] == '_') {
				j++
			}
			word := calc[i:j]
			if len(word) == 1 && strings.ContainsRune("ABCDabcd", rune(c)) {
				sb.WriteString("ch[")
				sb.WriteByte("0123"[(c|0x20)-'a'])
				sb.WriteString("]")
			} else {
				sb.WriteString(word)
			}
			i = j - 1
			prev = calc[j-1]
			continue

		case c == '#':
			sb.WriteString("!=")

		case c == '=':
			next := byte(0)
			if i+1 < len(calc) {
				next = calc[i+1]
			}
			if strings.IndexByte("<>!=", prev) >= 0 || next == '=' {
				sb.WriteByte('=')
			} else {
				sb.WriteString("==")
			}

		default:
			sb.WriteByte(c)
		}
		prev = c
	}
	return sb.String()
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
