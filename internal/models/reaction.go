package models

// ReactionKind is the sentiment a user records against a post, comment or reply
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Reaction is one user's entry in a reaction ledger
type Reaction struct {
	Author string       `json:"author" bson:"author"`
	Kind   ReactionKind `json:"reaction" bson:"reaction"`
}

// ReactionChange describes what a toggle did to the caller's entry
type ReactionChange int

const (
	ReactionAdded ReactionChange = iota
	ReactionReplaced
	ReactionRemoved
)

// ReactionSummary is the response shape of every react endpoint
type ReactionSummary struct {
	Reactions      []Reaction `json:"reactions"`
	LikesAmount    int        `json:"likesAmount"`
	DislikesAmount int        `json:"dislikesAmount"`
}

// ToggleReaction returns a new ledger with author's reaction toggled: the same
// kind removes it, another kind replaces it in place, no entry appends one.
// The input slice is never modified and the result holds at most one entry
// per author.
func ToggleReaction(reactions []Reaction, author string, kind ReactionKind) ([]Reaction, ReactionChange) {
	out := make([]Reaction, 0, len(reactions)+1)
	change := ReactionAdded
	found := false

	for _, r := range reactions {
		if r.Author != author {
			out = append(out, r)
			continue
		}
		if found {
			continue
		}
		found = true
		if r.Kind == kind {
			change = ReactionRemoved
			continue
		}
		change = ReactionReplaced
		out = append(out, Reaction{Author: author, Kind: kind})
	}

	if !found {
		out = append(out, Reaction{Author: author, Kind: kind})
	}
	return out, change
}

// CountReactions derives the like and dislike totals of a ledger
func CountReactions(reactions []Reaction) (likes, dislikes int) {
	for _, r := range reactions {
		switch r.Kind {
		case ReactionLike:
			likes++
		case ReactionDislike:
			dislikes++
		}
	}
	return likes, dislikes
}

func summarize(reactions []Reaction) ReactionSummary {
	likes, dislikes := CountReactions(reactions)
	if reactions == nil {
		reactions = []Reaction{}
	}
	return ReactionSummary{Reactions: reactions, LikesAmount: likes, DislikesAmount: dislikes}
}
