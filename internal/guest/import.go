package guest

import (
	"context"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
)

// MaxImportRows is a hard ceiling per import call.
const MaxImportRows = 200

type ImportRow struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone"`
}

// imported + skipped always equals the number of submitted rows.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// dedupIndex holds the lookups built from an event's existing guests.
type dedupIndex struct {
	names  map[string]struct{}
	phones map[string]struct{}
}

func nameKey(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first)) + "|" + strings.ToLower(strings.TrimSpace(last))
}

func newDedupIndex(existing []Guest) dedupIndex {
	idx := dedupIndex{
		names:  make(map[string]struct{}, len(existing)),
		phones: make(map[string]struct{}, len(existing)),
	}
	for _, g := range existing {
		idx.names[nameKey(g.FirstName, g.LastName)] = struct{}{}
		if g.Phone != nil {
			if p := strings.TrimSpace(*g.Phone); p != "" {
				idx.phones[p] = struct{}{}
			}
		}
	}
	return idx
}

// admit reports whether row survives deduplication. It only consults data
// that existed before the import; rows in the same batch are not compared
// with each other.
func (idx dedupIndex) admit(row ImportRow) bool {
	first := strings.TrimSpace(row.FirstName)
	last := strings.TrimSpace(row.LastName)
	if first == "" || last == "" {
		return false
	}
	if _, ok := idx.names[nameKey(first, last)]; ok {
		return false
	}
	if row.Phone != nil {
		if p := strings.TrimSpace(*row.Phone); p != "" {
			if _, ok := idx.phones[p]; ok {
				return false
			}
		}
	}
	return true
}

// Import inserts the rows that do not collide with existing guests. The
// event row is locked for the duration so concurrent imports into the same
// event run one after another.
func (s *Service) Import(ctx context.Context, sc guard.Scope, rows []ImportRow, channel InviteChannel) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, apperr.Invalid("guests must not be empty")
	}
	if len(rows) > MaxImportRows {
		return ImportResult{}, apperr.Invalid("at most 200 guests per import")
	}
	if channel == "" {
		channel = ChannelImport
	}
	if !channel.Valid() {
		return ImportResult{}, apperr.Invalid("invalid inviteChannel")
	}

	var res ImportResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := guard.Lock(tx, sc)
		if err != nil {
			return err
		}

		var existing []Guest
		if err := tx.Select("first_name", "last_name", "phone").
			Where("event_id = ?", ev.ID).
			Find(&existing).Error; err != nil {
			return err
		}
		idx := newDedupIndex(existing)

		fresh := make([]Guest, 0, len(rows))
		for _, row := range rows {
			if !idx.admit(row) {
				continue
			}
			fresh = append(fresh, Guest{
				EventID:       ev.ID,
				FirstName:     strings.TrimSpace(row.FirstName),
				LastName:      strings.TrimSpace(row.LastName),
				Phone:         trimmedPhone(row.Phone),
				RSVPStatus:    RSVPPending,
				InviteChannel: channel,
				InviteToken:   inviteTokenFor(ev.InviteModel),
			})
		}

		if len(fresh) > 0 {
			if err := tx.CreateInBatches(&fresh, 100).Error; err != nil {
				return err
			}
		}

		res = ImportResult{Imported: len(fresh), Skipped: len(rows) - len(fresh)}
		return nil
	})
	return res, err
}
