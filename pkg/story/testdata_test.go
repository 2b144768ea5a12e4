package story

import (
	"fmt"
	"strings"
)

// testRecord describes one record of a story file for the input builder.
type testRecord struct {
	text    string
	tag     string   // "WON", "FAILED" or "" for ongoing
	targets []int    // ongoing only
	labels  []string // optional, defaults to "go to <target>"
	ownLine bool     // put the tag on the line after the closing marker
}

// buildInput writes records in the story file format.
func buildInput(records ...testRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", len(records))
	for _, r := range records {
		b.WriteString("<<<\n")
		b.WriteString(r.text)
		b.WriteString("\n>>>")
		tag := r.tag
		if tag == "" {
			tag = fmt.Sprintf("%d", len(r.targets))
		}
		if r.ownLine {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "<%s>\n", tag)
		if r.tag != "" {
			continue
		}
		b.WriteString("***\n")
		for j, target := range r.targets {
			label := fmt.Sprintf("go to %d", target)
			if j < len(r.labels) {
				label = r.labels[j]
			}
			fmt.Fprintf(&b, "+ %d. %s\n", target, label)
		}
		b.WriteString("***\n")
	}
	return b.String()
}

const forkStory = `3
<<<
A fork in the road.
>>> <2>
***
+ 1. take the left path
+ 2. take the right path
***
<<<
You found the treasure.
>>> <WON>
<<<
You fell into a pit.
>>>
<FAILED>
`

const loopStory = `2
<<<
A loop.
>>> <1>
***
+ 0. go back
***
<<<
Dead.
>>> <FAILED>
`
