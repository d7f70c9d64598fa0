package git

import (
	"strings"
	"time"
)

const (
	labelHash    = "Hash:"
	labelAuthor  = "Author:"
	labelDate    = "Date:"
	labelMessage = "Message:"
)

// LogFormat is the --pretty value whose output ParseLog understands.
// Records are separated by blank lines.
const LogFormat = "format:" + labelHash + " %H%n" + labelAuthor + " %an%n" + labelDate + " %ad%n" + labelMessage + " %B%n"

// ParseLog splits labelled git log output into commits and the message
// entries derived from them. A block without a message label still yields a
// commit, but no message entry. Blocks that follow a commit with a message
// and do not open with a full hash, author and date header are further
// paragraphs of that message, even when they start with the hash label.
func ParseLog(repo Repository, raw string) ([]Commit, []Message) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var commits []Commit
	for _, block := range strings.Split(raw, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		if n := len(commits); n > 0 && commits[n-1].HasMessage && !isHeader(block) {
			last := &commits[n-1]
			last.Message += "\n\n" + block
			last.Raw += "\n\n" + block
			continue
		}

		commits = append(commits, parseBlock(repo, block))
	}

	messages := make([]Message, 0, len(commits))
	for _, c := range commits {
		if c.HasMessage {
			messages = append(messages, Message{Repo: repo, Text: c.Message})
		}
	}

	return commits, messages
}

// isHeader reports whether block opens with the hash, author and date lines
// in the order LogFormat emits them.
func isHeader(block string) bool {
	lines := strings.SplitN(block, "\n", 4)
	return len(lines) >= 3 &&
		strings.HasPrefix(lines[0], labelHash) &&
		strings.HasPrefix(lines[1], labelAuthor) &&
		strings.HasPrefix(lines[2], labelDate)
}

func parseBlock(repo Repository, block string) Commit {
	c := Commit{Repo: repo, Raw: block}

	lines := strings.Split(block, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, labelHash):
			c.Hash = strings.TrimSpace(line[len(labelHash):])
		case strings.HasPrefix(line, labelAuthor):
			c.Author = strings.TrimSpace(line[len(labelAuthor):])
		case strings.HasPrefix(line, labelDate):
			c.Date = strings.TrimSpace(line[len(labelDate):])
			c.When, _ = time.Parse(isoLayout, c.Date)
		case strings.HasPrefix(line, labelMessage):
			// Everything after the label belongs to the message
			rest := append([]string{line[len(labelMessage):]}, lines[i+1:]...)
			c.Message = strings.TrimSpace(strings.Join(rest, "\n"))
			c.HasMessage = true
			return c
		}
	}

	return c
}
