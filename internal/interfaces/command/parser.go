// Package command parses "remind ..." chat texts and runs them against the
// reminder service. It is shared by every transport (LINE webhook, REST).
package command

import (
	"regexp"
	"remindbot/internal/domain/calendar"
	"strings"
)

// Kind identifies a parsed command.
type Kind int

const (
	KindHelp Kind = iota + 1
	KindCount
	KindReload
	KindList
	KindDelete
	KindDeleteAll
	KindAdd
)

// Command is a parsed chat command. Only the fields of its Kind are set.
type Command struct {
	Kind Kind

	// KindDelete
	ID string

	// KindAdd. Target is empty for "me".
	Target string
	Task   string
	Repeat calendar.Repeat
	When   string
	Clock  string
}

var (
	helpPattern   = regexp.MustCompile(`(?i)^remind help$`)
	countPattern  = regexp.MustCompile(`(?i)^remind count$`)
	reloadPattern = regexp.MustCompile(`(?i)^remind reload brain$`)
	listPattern   = regexp.MustCompile(`(?i)^remind show all reminders$`)
	deletePattern = regexp.MustCompile(`(?i)^remind delete (\S+)$`)
	addPattern    = regexp.MustCompile(`(?i)^remind (me|@(\S+)) to (.+?) (every|on|tomorrow|today)(?: (\S+))?(?: at (\d{1,2}:\d{2}))?$`)
)

// Parse recognizes text as a command. ok is false for ordinary chat.
func Parse(text string) (Command, bool) {
	text = strings.Join(strings.Fields(text), " ")

	switch {
	case helpPattern.MatchString(text):
		return Command{Kind: KindHelp}, true
	case countPattern.MatchString(text):
		return Command{Kind: KindCount}, true
	case reloadPattern.MatchString(text):
		return Command{Kind: KindReload}, true
	case listPattern.MatchString(text):
		return Command{Kind: KindList}, true
	}

	if m := deletePattern.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "all") {
			return Command{Kind: KindDeleteAll}, true
		}
		return Command{Kind: KindDelete, ID: m[1]}, true
	}

	if m := addPattern.FindStringSubmatch(text); m != nil {
		cmd := Command{
			Kind:   KindAdd,
			Task:   m[3],
			Repeat: calendar.Repeat(strings.ToLower(m[4])),
			When:   m[5],
			Clock:  m[6],
		}
		if !strings.EqualFold(m[1], "me") {
			cmd.Target = m[2]
		}
		return cmd, true
	}
	return Command{}, false
}
