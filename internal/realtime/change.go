package realtime

import "encoding/json"

// Change - изменение строки, пришедшее из канала row_changes.
// Old/New отсутствуют соответственно при INSERT/DELETE, а также когда
// полезная нагрузка не влезла в лимит NOTIFY (Truncated).
type Change struct {
	Table     string          `json:"table"`
	Op        string          `json:"op"`
	Old       json.RawMessage `json:"old,omitempty"`
	New       json.RawMessage `json:"new,omitempty"`
	Truncated bool            `json:"truncated,omitempty"`
}

// Rows декодирует old/new в словари для классификации. Усечённое или
// битое содержимое даёт nil-словарь, не ошибку.
func (c *Change) Rows() (oldRow, newRow map[string]any) {
	if len(c.Old) > 0 {
		_ = json.Unmarshal(c.Old, &oldRow)
	}
	if len(c.New) > 0 {
		_ = json.Unmarshal(c.New, &newRow)
	}
	return oldRow, newRow
}
