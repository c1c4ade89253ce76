package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cardforge/internal/keywords"
)

func TestSplit(t *testing.T) {
	segs := Split("{T}: Add {G}. (Tap it.)\nDraw a card.")
	assert.Equal(t, []Segment{
		{Kind: KindMana, Content: "T"},
		{Kind: KindText, Content: ": Add "},
		{Kind: KindMana, Content: "G"},
		{Kind: KindText, Content: ". "},
		{Kind: KindItalic, Content: "(Tap it.)"},
		{Kind: KindNewline, Content: "\n"},
		{Kind: KindText, Content: "Draw a card."},
	}, segs)
}

func TestSplit_NoEmptySegments(t *testing.T) {
	for _, s := range Split("{W}{U}\n\n(x)") {
		assert.NotEmpty(t, s.Content)
	}
}

func TestProcessRulesText_Empty(t *testing.T) {
	assert.Nil(t, ProcessRulesText("", "Anything", keywords.Default(), true))
}

func TestProcessRulesText_RoundTrip(t *testing.T) {
	raw := "When CARDNAME enters, ~ deals 2 damage.\n{2}{R}, {T}: Sacrifice ~. (It's gone.)"
	segs := ProcessRulesText(raw, "Goblin Igniter", nil, false)
	assert.Equal(t,
		"When Goblin Igniter enters, Goblin Igniter deals 2 damage.\n{2}{R}, {T}: Sacrifice Goblin Igniter. (It's gone.)",
		SegmentsToPlainText(segs))
	assert.Equal(t, []string{"2", "R", "T"}, ManaTokens(segs))
}

func TestSubstituteName_EmptyNameKeepsMarkers(t *testing.T) {
	assert.Equal(t, "~ attacks", SubstituteName("~ attacks", ""))
}

func TestProcessRulesText_ExpandsReminders(t *testing.T) {
	segs := ProcessRulesText("Flying", "Drake", keywords.Default(), true)
	require.Len(t, segs, 2)
	assert.Equal(t, KindText, segs[0].Kind)
	assert.Equal(t, KindItalic, segs[1].Kind)
	assert.Contains(t, segs[1].Content, "flying or reach")
}
