package mcpserver

// ReportFormatContract describes the JSON payloads that the audit tools
// return, for LLM consumers interpreting the results.
const ReportFormatContract = `# Ansuz Audit Report Format

The ` + "`" + `run_audit` + "`" + ` and ` + "`" + `get_report` + "`" + ` tools return a JSON object:

` + "```" + `json
{
  "report": {
    "floating": ["orphan.md"],
    "missing": [
      {"source": "a.md", "target": "ghost.md"}
    ]
  },
  "events": [
    {"kind": "article_added", "path": "a.md", "timestamp": "2025-01-20T10:00:00Z"}
  ],
  "skipped": ["unreadable.md"],
  "run_at": "2025-01-20T10:00:00Z"
}
` + "```" + `

## Fields

- ` + "`" + `report.floating` + "`" + ` lists articles no other article links to. An article
  that only links to itself is still floating.
- ` + "`" + `report.missing` + "`" + ` lists link occurrences whose target does not exist in
  the library. ` + "`" + `target` + "`" + ` is the literal string as written in the source
  document. The same target appears once per source article that references it.
- ` + "`" + `events` + "`" + ` are the changes detected by this run compared to the cached
  snapshot. On a first run (no cache) only ` + "`" + `article_added` + "`" + ` events appear.
- ` + "`" + `skipped` + "`" + ` lists documents that could not be read; they are excluded
  from the snapshot but do not fail the audit.

## Event kinds

| kind | meaning | target |
|------|---------|--------|
| ` + "`" + `article_added` + "`" + ` | document appeared in the library | unset |
| ` + "`" + `article_removed` + "`" + ` | document disappeared | unset |
| ` + "`" + `article_modified` + "`" + ` | timestamp or checksum changed | unset |
| ` + "`" + `link_added` + "`" + ` | document gained a link | the link target |
| ` + "`" + `link_removed` + "`" + ` | document lost a link | the link target |

A removed article produces a single ` + "`" + `article_removed` + "`" + ` event; its links
are not reported individually.

` + "`" + `get_history` + "`" + ` returns the full persisted event list in the same shape,
ordered oldest first. The log is append-only: past events never change.
`
