package models

import (
	"math/rand"
	"reflect"
	"testing"
)

func authorsOnce(t *testing.T, reactions []Reaction) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range reactions {
		if seen[r.Author] {
			t.Fatalf("author %s has more than one reaction: %v", r.Author, reactions)
		}
		seen[r.Author] = true
	}
}

func TestToggleReactionCases(t *testing.T) {
	base := []Reaction{{Author: "a", Kind: ReactionLike}, {Author: "b", Kind: ReactionDislike}}

	cases := []struct {
		name   string
		author string
		kind   ReactionKind
		want   []Reaction
		change ReactionChange
	}{
		{"append", "c", ReactionLike, append(append([]Reaction{}, base...), Reaction{Author: "c", Kind: ReactionLike}), ReactionAdded},
		{"remove same kind", "a", ReactionLike, []Reaction{{Author: "b", Kind: ReactionDislike}}, ReactionRemoved},
		{"replace in place", "a", ReactionDislike, []Reaction{{Author: "a", Kind: ReactionDislike}, {Author: "b", Kind: ReactionDislike}}, ReactionReplaced},
	}
	for _, c := range cases {
		got, change := ToggleReaction(base, c.author, c.kind)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
		if change != c.change {
			t.Fatalf("%s: expected change %d, got %d", c.name, c.change, change)
		}
	}

	if base[0].Kind != ReactionLike || len(base) != 2 {
		t.Fatalf("input ledger was modified: %v", base)
	}
}

func TestToggleReactionTwiceRestores(t *testing.T) {
	start := []Reaction{{Author: "a", Kind: ReactionDislike}, {Author: "b", Kind: ReactionLike}}
	for _, author := range []string{"b", "z"} {
		once, _ := ToggleReaction(start, author, ReactionLike)
		twice, _ := ToggleReaction(once, author, ReactionLike)
		if author == "b" {
			// b already liked: first toggle removes, second re-appends at the end
			if len(twice) != len(start) {
				t.Fatalf("expected %d reactions, got %v", len(start), twice)
			}
			continue
		}
		if !reflect.DeepEqual(twice, start) {
			t.Fatalf("toggling %s twice: expected %v, got %v", author, start, twice)
		}
	}
}

func TestToggleReactionRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	users := []string{"u1", "u2", "u3", "u4"}
	kinds := []ReactionKind{ReactionLike, ReactionDislike}

	for run := 0; run < 50; run++ {
		var ledger []Reaction
		for step := 0; step < 100; step++ {
			ledger, _ = ToggleReaction(ledger, users[rng.Intn(len(users))], kinds[rng.Intn(len(kinds))])
			authorsOnce(t, ledger)

			likes, dislikes := CountReactions(ledger)
			if likes+dislikes != len(ledger) {
				t.Fatalf("counts %d+%d do not cover ledger %v", likes, dislikes, ledger)
			}
		}
	}
}

func TestToggleReactionCollapsesDuplicates(t *testing.T) {
	dirty := []Reaction{{Author: "a", Kind: ReactionLike}, {Author: "a", Kind: ReactionLike}}
	got, _ := ToggleReaction(dirty, "a", ReactionDislike)
	authorsOnce(t, got)
	if len(got) != 1 || got[0].Kind != ReactionDislike {
		t.Fatalf("expected a single dislike, got %v", got)
	}
}

func TestPostSetReactionsKeepsCounters(t *testing.T) {
	p := &Post{}
	p.SetReactions([]Reaction{{Author: "a", Kind: ReactionLike}, {Author: "b", Kind: ReactionLike}, {Author: "c", Kind: ReactionDislike}})
	if p.LikesAmount != 2 || p.DislikesAmount != 1 {
		t.Fatalf("expected 2/1, got %d/%d", p.LikesAmount, p.DislikesAmount)
	}
	s := p.ReactionSummary()
	if s.LikesAmount != 2 || len(s.Reactions) != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if (&Post{}).ReactionSummary().Reactions == nil {
		t.Fatalf("summary must encode an empty ledger as []")
	}
}
