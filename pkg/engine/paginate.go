package engine

// Cursor-based pagination across heterogeneous Gong response shapes. The
// cursor probe and the merge strategies are both ordered lists evaluated
// top to bottom on every page, so behavior stays deterministic even when
// the upstream shape is not known in advance.

// PaginationInfoKey is the metadata field attached to every result.
const PaginationInfoKey = "_paginationInfo"

// namedArrayFields are the recognized array-bearing response fields, in
// fixed merge-priority order.
var namedArrayFields = []string{"records", "calls", "users", "results"}

// extractCursor probes a decoded page for the continuation cursor:
// records.nextPageCursor, then nextPageCursor, then cursor. Different
// operations nest the cursor at different depths; one schema cannot be
// assumed.
func extractCursor(page any) string {
	m, ok := page.(map[string]any)
	if !ok {
		return ""
	}
	if records, ok := m["records"].(map[string]any); ok {
		if s, ok := records["nextPageCursor"].(string); ok && s != "" {
			return s
		}
	}
	if s, ok := m["nextPageCursor"].(string); ok && s != "" {
		return s
	}
	if s, ok := m["cursor"].(string); ok && s != "" {
		return s
	}
	return ""
}

// accumulator merges pages for one engine invocation. It is created fresh
// per call and discarded afterwards.
type accumulator struct {
	merged     any
	pages      int
	additional []any
}

// add merges one decoded page. The first page becomes the accumulated
// result as-is; subsequent pages are merged shape-directed. A page whose
// shape matches no strategy lands in additionalPages so no data is ever
// silently lost.
func (a *accumulator) add(page any) {
	a.pages++
	if a.pages == 1 {
		a.merged = page
		return
	}

	accMap, accIsMap := a.merged.(map[string]any)
	pageMap, pageIsMap := page.(map[string]any)

	if accIsMap && pageIsMap {
		for _, field := range namedArrayFields {
			accArr, accHas := accMap[field].([]any)
			pageArr, pageHas := pageMap[field].([]any)
			if accHas && pageHas {
				accMap[field] = append(accArr, pageArr...)
				refreshCursorMeta(accMap, pageMap)
				return
			}
		}
	} else if accArr, ok := a.merged.([]any); ok {
		if pageArr, ok := page.([]any); ok {
			a.merged = append(accArr, pageArr...)
			return
		}
	}

	a.additional = append(a.additional, page)
}

// refreshCursorMeta replaces the accumulator's cursor-bearing fields with
// the latest page's values, deleting them when the page omits them, so a
// partially-complete trail never strands a stale cursor in the merged body.
func refreshCursorMeta(acc, page map[string]any) {
	if v, ok := page["nextPageCursor"]; ok {
		acc["nextPageCursor"] = v
	} else {
		delete(acc, "nextPageCursor")
	}

	// The records metadata map carries the nested cursor. Only a metadata
	// map is replaced or dropped; a merged records array stays untouched.
	if meta, ok := page["records"].(map[string]any); ok {
		acc["records"] = meta
	} else if _, isMeta := acc["records"].(map[string]any); isMeta {
		delete(acc, "records")
	}
}

// finalize attaches pagination metadata. hasMorePages is a point-in-time
// signal, not a resumable cursor: resuming requires re-invoking with an
// explicit cursor argument.
func (a *accumulator) finalize(paginated bool, lastCursor string) any {
	info := map[string]any{
		"hasMorePages": paginated && lastCursor != "",
		"totalPages":   a.pages,
		"currentPage":  a.pages,
	}

	if m, ok := a.merged.(map[string]any); ok {
		if len(a.additional) > 0 {
			m["additionalPages"] = a.additional
		}
		m[PaginationInfoKey] = info
		return m
	}

	// Non-object results (top-level arrays, raw text pages) get wrapped so
	// the metadata has somewhere to live.
	out := map[string]any{
		"data":            a.merged,
		PaginationInfoKey: info,
	}
	if len(a.additional) > 0 {
		out["additionalPages"] = a.additional
	}
	return out
}
