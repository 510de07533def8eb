package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
)

// RulesCmd lists the validation rules in evaluation order.
type RulesCmd struct {
	JSON bool `help:"Output the rule catalog as JSON."`
}

func (cmd *RulesCmd) Run(ctx *kong.Context, globals *Globals) error {
	rules := engine.Rules()

	if cmd.JSON {
		type ruleInfo struct {
			Name        string          `json:"name"`
			Description string          `json:"description"`
			Severity    engine.Severity `json:"severity"`
			Field       string          `json:"field"`
		}
		infos := make([]ruleInfo, 0, len(rules))
		for _, rule := range rules {
			infos = append(infos, ruleInfo{
				Name:        rule.Name,
				Description: rule.Description,
				Severity:    rule.Severity,
				Field:       rule.Field,
			})
		}
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(ctx.Stdout, string(data))
		return nil
	}

	nameWidth := 0
	for _, rule := range rules {
		if l := runewidth.StringWidth(rule.Name); l > nameWidth {
			nameWidth = l
		}
	}

	for _, rule := range rules {
		severity := errorStyle.Render(string(rule.Severity))
		if rule.Severity == engine.SeverityWarning {
			severity = warningStyle.Render(string(rule.Severity))
		}
		padding := strings.Repeat(" ", nameWidth-runewidth.StringWidth(rule.Name))
		// Pad on the raw severity word, styling adds invisible escape codes.
		severityPad := strings.Repeat(" ", len(engine.SeverityWarning)-len(rule.Severity))
		_, _ = fmt.Fprintf(ctx.Stdout, "%s%s  %s%s  %s\n",
			rule.Name, padding, severity, severityPad, rule.Description)
	}

	return nil
}
