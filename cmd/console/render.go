package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/musilife/pkg/display"
	"github.com/jwebster45206/musilife/pkg/engine"
	"github.com/jwebster45206/musilife/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const statBarWidth = 15

// snapshotSink keeps the most recent snapshot rendered by the session.
type snapshotSink struct {
	latest  engine.Snapshot
	renders int
}

func (s *snapshotSink) Render(snap engine.Snapshot) {
	s.latest = snap
	s.renders++
}

// statBar draws a stat as a filled bar over the [-5, 25] range.
func statBar(v int) string {
	filled := int(math.Round(display.StatPercent(v) / 100 * statBarWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", statBarWidth-filled)
}

func writeHeader(snap engine.Snapshot) string {
	p := snap.Player
	var content strings.Builder
	content.WriteString(titleStyle.Render("MUSILIFE") + "\n\n")
	content.WriteString(fmt.Sprintf("%s, age %d\n", p.Name, p.Age))
	switch {
	case snap.GameOver != nil:
		content.WriteString(errorStyle.Render("Game Over") + "\n")
	default:
		content.WriteString(phaseStyle.Render(display.PhaseTitle(string(p.Phase))) + "\n")
	}
	for _, v := range snap.Victories {
		content.WriteString(victoryStyle.Render("★ "+display.Title(string(v.Type))) + "\n")
	}
	return content.String()
}

func writeStats(p *state.PlayerState) string {
	var content strings.Builder
	content.WriteString(sectionStyle.Render("Stats") + "\n")
	for _, name := range state.StatNames {
		v := p.Stat(name)
		content.WriteString(fmt.Sprintf("%-13s %s %3d\n", display.Title(name), barStyle.Render(statBar(v)), v))
	}

	content.WriteString("\n" + sectionStyle.Render("Resources") + "\n")
	for _, name := range state.ResourceNames {
		v := p.Resource(name)
		value := display.Number(v)
		if name == state.ResourceMoney {
			value = display.Money(v)
		}
		content.WriteString(fmt.Sprintf("%-13s %s\n", display.Title(name), value))
	}

	if flags := p.SortedFlags(); len(flags) > 0 {
		content.WriteString("\n" + sectionStyle.Render("Traits") + "\n")
		content.WriteString(strings.Join(flags, ", ") + "\n")
	}
	return content.String()
}

func writePrompt(snap engine.Snapshot, width int) string {
	var content strings.Builder
	if snap.GameOver != nil {
		content.WriteString(errorStyle.Render("GAME OVER") + "\n\n")
		content.WriteString(wordwrap.String(snap.GameOver.Message, width) + "\n\n")
		content.WriteString(promptStyle.Render("Press r to start a new life, q to quit"))
		return content.String()
	}

	prompt := snap.Prompt
	if prompt == nil {
		return promptStyle.Render("Nothing to decide right now.")
	}

	if prompt.Title != "" {
		content.WriteString(sectionStyle.Render(prompt.Title) + "\n")
	}
	content.WriteString(wordwrap.String(prompt.Text, width) + "\n\n")
	for _, opt := range prompt.Options {
		line := fmt.Sprintf("%d. %s", opt.Index+1, opt.Text)
		if opt.Locked {
			line += " (" + strings.Join(opt.Reasons, ", ") + ")"
			content.WriteString(lockedStyle.Render(wordwrap.String(line, width)) + "\n")
			continue
		}
		content.WriteString(optionStyle.Render(wordwrap.String(line, width)) + "\n")
	}
	return content.String()
}

// formatLog renders the career log, most recent entry first.
func formatLog(p *state.PlayerState, width int) string {
	var content strings.Builder
	for _, entry := range p.RecentLog(0) {
		prefix := fmt.Sprintf("[%d] ", entry.Age)
		content.WriteString(ageStyle.Render(prefix) + wordwrap.String(entry.Text, width-len(prefix)) + "\n")
	}
	return content.String()
}

// plainLog is the log as copied to the clipboard, oldest entry first.
func plainLog(p *state.PlayerState) string {
	var content strings.Builder
	for _, entry := range p.GameLog {
		content.WriteString(fmt.Sprintf("[Age %d] %s\n", entry.Age, entry.Text))
	}
	return content.String()
}
