// Package report turns finished activity records into the downloadable
// CSV exports: the ALL file with every observed member and the PRUNED file
// without the members whose true count is hidden by the privacy cap.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"ghost-detector-bot/internal/detector"
)

// columns is the fixed header row, identical across variants.
var columns = []string{"user", "id", "nickname", "message_count", "joined_at", "last_message_date", "roles"}

// implicitRole is the base role every member holds; it carries no signal
// and is excluded from the roles column.
const implicitRole = "everyone"

// timeLayout is how join and last-message timestamps are rendered.
const timeLayout = time.RFC3339

// Generate produces the two report variants from the finished records.
// Both returned streams are positioned at the start, ready for upload.
//
// The ALL variant holds one row per member unconditionally. The PRUNED
// variant drops members whose count equals maxCount: their true count is
// unknown, so they are excluded from the privacy-safe report.
func Generate(users map[string]*detector.UserInfo, maxCount int) (pruned, all *bytes.Reader) {
	rows := sortedRecords(users)

	var prunedBuf, allBuf bytes.Buffer
	prunedWriter := csv.NewWriter(&prunedBuf)
	allWriter := csv.NewWriter(&allBuf)
	_ = prunedWriter.Write(columns)
	_ = allWriter.Write(columns)

	for _, info := range rows {
		row, err := buildRow(info)
		if err != nil {
			// A malformed member must not abort the whole export.
			log.Printf("[Report] Skipping row for member %q: %v", info.Member.ID, err)
			continue
		}
		_ = allWriter.Write(row)
		if info.MessageCount != maxCount {
			_ = prunedWriter.Write(row)
		}
	}
	prunedWriter.Flush()
	allWriter.Flush()

	return bytes.NewReader(prunedBuf.Bytes()), bytes.NewReader(allBuf.Bytes())
}

// GenerateCombined produces the legacy single-file export: only the pruned
// rows, same columns and ordering as the two-file mode.
func GenerateCombined(users map[string]*detector.UserInfo, maxCount int) *bytes.Reader {
	combined, _ := Generate(users, maxCount)
	return combined
}

// sortedRecords orders the records by member name ascending (ordinal).
// IDs break ties between members who share a name, keeping output stable.
func sortedRecords(users map[string]*detector.UserInfo) []*detector.UserInfo {
	rows := make([]*detector.UserInfo, 0, len(users))
	for _, info := range users {
		rows = append(rows, info)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Member.Name != rows[j].Member.Name {
			return rows[i].Member.Name < rows[j].Member.Name
		}
		return rows[i].Member.ID < rows[j].Member.ID
	})
	return rows
}

// buildRow projects one record into its CSV columns.
func buildRow(info *detector.UserInfo) ([]string, error) {
	m := info.Member
	if m.ID == "" {
		return nil, fmt.Errorf("member has no id")
	}

	user := m.Name
	if m.Discriminator != "" {
		user = m.Name + "#" + m.Discriminator
	}

	roles := make([]string, 0, len(m.Roles))
	for _, role := range m.Roles {
		if strings.TrimPrefix(role, "@") == implicitRole {
			continue
		}
		roles = append(roles, role)
	}
	sort.Strings(roles)

	return []string{
		user,
		m.ID,
		m.DisplayName,
		strconv.Itoa(info.MessageCount),
		formatTime(m.JoinedAt),
		formatTime(info.LastMessageAt),
		strings.Join(roles, ", "),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// Filename builds a report filename: GhostUsers_<workspace-slug>_<UTC
// yyyyMMdd_HHmm><suffix>.csv. Suffix is "_PRUNED"/"_ALL" in two-file mode
// and empty for the legacy combined file.
func Filename(workspace string, now time.Time, suffix string) string {
	slug := Slugify(workspace, "_")
	return fmt.Sprintf("GhostUsers_%s_%s%s.csv", slug, now.UTC().Format("20060102_1504"), suffix)
}
