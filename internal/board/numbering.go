package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/models"
)

// NextStoryNumber issues the next story number for the configured prefix,
// zero-padded to three digits. The counter only moves forward: it is seeded
// once from the stories on hand and incremented on every issue, never
// decreased, so deleting or archiving the highest-numbered story cannot
// cause its number to be reissued.
func (b *Board) NextStoryNumber() string {
	b.counter++
	return fmt.Sprintf("%s-%03d", strings.ToUpper(b.Settings.StoryPrefix), b.counter)
}

// seedCounter positions the counter at the highest numeric suffix found for
// the current prefix across active and archived stories. Called when board
// state or the prefix is replaced wholesale, never after individual edits.
func (b *Board) seedCounter() {
	prefix := strings.ToUpper(b.Settings.StoryPrefix)
	max := 0
	scan := func(sprints []models.Sprint) {
		for i := range sprints {
			for j := range sprints[i].Stories {
				n, ok := parseStoryNumber(sprints[i].Stories[j].Number, prefix)
				if ok && n > max {
					max = n
				}
			}
		}
	}
	scan(b.Sprints)
	scan(b.ArchivedSprints)
	b.counter = max
}

func parseStoryNumber(number, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(number, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
