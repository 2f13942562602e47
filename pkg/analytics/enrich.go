package analytics

import "github.com/randalmurphal/analytics/pkg/analytics/event"

// stamp returns a copy of msg enriched with the identity and context
// snapshot. The caller's message is never mutated.
//
// Identity is engine-owned: anonymousId and userId are overwritten
// unconditionally for every variant except Alias, which declares its own
// identity linkage and passes through untouched. Batch merges context at the
// batch level and stamps each member's ids, again skipping Alias members.
func stamp(msg event.Message, anonymousID, userID string, base map[string]any) event.Message {
	switch m := msg.(type) {
	case *event.Identify:
		out := *m
		out.AnonymousID = anonymousID
		out.UserID = userID
		out.Context = mergeContext(base, m.Context)
		return &out
	case *event.Track:
		out := *m
		out.AnonymousID = anonymousID
		out.UserID = userID
		out.Context = mergeContext(base, m.Context)
		return &out
	case *event.Page:
		out := *m
		out.AnonymousID = anonymousID
		out.UserID = userID
		out.Context = mergeContext(base, m.Context)
		return &out
	case *event.Screen:
		out := *m
		out.AnonymousID = anonymousID
		out.UserID = userID
		out.Context = mergeContext(base, m.Context)
		return &out
	case *event.Group:
		out := *m
		out.AnonymousID = anonymousID
		out.UserID = userID
		out.Context = mergeContext(base, m.Context)
		return &out
	case *event.Alias:
		return m
	case *event.Batch:
		out := *m
		out.Context = mergeContext(base, m.Context)
		members := make([]event.BatchMessage, len(m.Batch))
		for i, bm := range m.Batch {
			members[i] = stampBatchMember(bm, anonymousID, userID)
		}
		out.Batch = members
		return &out
	default:
		return msg
	}
}

// stampBatchMember overwrites a batch member's ids. Context merging happens
// once at the batch level, not per member.
func stampBatchMember(m event.BatchMessage, anonymousID, userID string) event.BatchMessage {
	switch v := m.(type) {
	case *event.Identify:
		out := *v
		out.AnonymousID = anonymousID
		out.UserID = userID
		return &out
	case *event.Track:
		out := *v
		out.AnonymousID = anonymousID
		out.UserID = userID
		return &out
	case *event.Page:
		out := *v
		out.AnonymousID = anonymousID
		out.UserID = userID
		return &out
	case *event.Screen:
		out := *v
		out.AnonymousID = anonymousID
		out.UserID = userID
		return &out
	case *event.Group:
		out := *v
		out.AnonymousID = anonymousID
		out.UserID = userID
		return &out
	default: // *event.Alias
		return m
	}
}

// mergeContext combines the stored context snapshot with a message's own
// context. base is already a private deep copy, so it can be returned or
// merged into directly.
func mergeContext(base, overlay map[string]any) map[string]any {
	if overlay == nil {
		if len(base) == 0 {
			return nil
		}
		return base
	}
	return event.DeepMerge(base, overlay)
}
