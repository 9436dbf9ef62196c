package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
	"insaka-backend-go/internal/roster"
)

// KnownCategories is the closed set offered on registration forms.
// Imported rosters may carry other free-text categories; those are kept
// as-is but new registrations must pick from this list.
var KnownCategories = []string{
	"Organizing Committee", "Speaker", "VIP", "Media",
	"Service Provider", "Sponsor/Exhibitor Staff", "Government Official", "Other",
}

func IsKnownCategory(category string) bool {
	for _, known := range KnownCategories {
		if known == category {
			return true
		}
	}
	return false
}

type RegisterDelegateInput struct {
	Name         string
	Category     string
	Organization string
	RoleTitle    string
	Email        string
	Phone        string
	BadgePhoto   string
	Notes        string
	Nationality  string
}

// RegisterDelegate validates and inserts one delegate, returning the new
// numeric id. The (name, organization) pair is unique case-insensitively;
// a functional unique index backs the pre-check so two concurrent
// registrations cannot both slip through.
func RegisterDelegate(db *sqlx.DB, input RegisterDelegateInput) (int64, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" {
		return 0, ErrBadRequest("Name is required.")
	}
	if category == "" {
		return 0, ErrBadRequest("Category is required.")
	}
	if !IsKnownCategory(category) {
		return 0, ErrBadRequest("Unknown category: " + category)
	}
	organization := strings.TrimSpace(input.Organization)

	exists, err := delegateExists(db, name, organization)
	if err != nil {
		return 0, WrapError(err, "duplicate check")
	}
	if exists {
		return 0, ErrBadRequest("This person already exists for that organization.")
	}

	var id int64
	err = db.Get(&id, `
INSERT INTO delegates (nationality, name, category, organization, role_title, email, phone, badge_photo, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id
`, strings.TrimSpace(input.Nationality), name, category, organization,
		strings.TrimSpace(input.RoleTitle), strings.TrimSpace(input.Email),
		roster.NormalizePhone(input.Phone), strings.TrimSpace(input.BadgePhoto),
		strings.TrimSpace(input.Notes), time.Now().UTC())
	if err != nil {
		return 0, WrapError(err, "insert delegate")
	}
	return id, nil
}

func delegateExists(db *sqlx.DB, name, organization string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM delegates
  WHERE lower(trim(name)) = lower(trim($1)) AND lower(trim(organization)) = lower(trim($2))
)`, name, organization)
	return exists, err
}

func GetDelegate(db *sqlx.DB, id int64) (models.Delegate, error) {
	var delegate models.Delegate
	err := db.Get(&delegate, `SELECT * FROM delegates WHERE id = $1`, id)
	if err != nil {
		return models.Delegate{}, ErrNotFound("Delegate not found.")
	}
	return delegate, nil
}

// ListDelegates filters by a free-text query over name/organization/role
// and optionally by category.
func ListDelegates(db *sqlx.DB, search, category string) ([]models.Delegate, error) {
	query := `SELECT * FROM delegates`
	clauses := []string{}
	args := []interface{}{}
	if search = strings.TrimSpace(search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, `(lower(name) LIKE $`+n+` OR lower(organization) LIKE $`+n+` OR lower(role_title) LIKE $`+n+`)`)
	}
	if category = strings.TrimSpace(category); category != "" {
		args = append(args, category)
		clauses = append(clauses, `category = $`+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY id`
	delegates := []models.Delegate{}
	if err := db.Select(&delegates, query, args...); err != nil {
		return nil, WrapError(err, "list delegates")
	}
	return delegates, nil
}

type UpdateDelegateInput struct {
	Category     *string
	Organization *string
	RoleTitle    *string
	Email        *string
	Phone        *string
	BadgePhoto   *string
	Notes        *string
	Nationality  *string
}

// UpdateDelegate edits mutable fields. Identity (id, name) stays immutable
// once assigned; badges are printed from it.
func UpdateDelegate(db *sqlx.DB, id int64, input UpdateDelegateInput) error {
	if _, err := GetDelegate(db, id); err != nil {
		return err
	}
	if input.Category != nil && !IsKnownCategory(strings.TrimSpace(*input.Category)) {
		return ErrBadRequest("Unknown category: " + *input.Category)
	}
	phone := input.Phone
	if phone != nil {
		normalized := roster.NormalizePhone(*phone)
		phone = &normalized
	}
	_, err := db.Exec(`
UPDATE delegates SET
  category = COALESCE($2, category),
  organization = COALESCE($3, organization),
  role_title = COALESCE($4, role_title),
  email = COALESCE($5, email),
  phone = COALESCE($6, phone),
  badge_photo = COALESCE($7, badge_photo),
  notes = COALESCE($8, notes),
  nationality = COALESCE($9, nationality)
WHERE id = $1
`, id, input.Category, input.Organization, input.RoleTitle, input.Email,
		phone, input.BadgePhoto, input.Notes, input.Nationality)
	return WrapError(err, "update delegate")
}

// SetCheckedIn bulk-flips the event-level check-in flag. Unmatched ids are
// counted, not reported individually.
func SetCheckedIn(db *sqlx.DB, ids []int64, checked bool) (int, int, error) {
	updated := 0
	notFound := 0
	for _, id := range ids {
		result, err := db.Exec(`UPDATE delegates SET checked_in = $2 WHERE id = $1`, id, checked)
		if err != nil {
			return updated, notFound, WrapError(err, "set checked in")
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			notFound++
		} else {
			updated++
		}
	}
	return updated, notFound, nil
}

var dayColumns = map[int]string{
	1: "day1_checkin", 2: "day2_checkin", 3: "day3_checkin", 4: "day4_checkin", 5: "day5_checkin",
}

func SetDailyCheckIn(db *sqlx.DB, id int64, day int, checked bool) error {
	column, ok := dayColumns[day]
	if !ok {
		return ErrBadRequest("Invalid day. Must be 1, 2, 3, 4, or 5.")
	}
	result, err := db.Exec(`UPDATE delegates SET `+column+` = $2 WHERE id = $1`, id, checked)
	if err != nil {
		return WrapError(err, "set daily check-in")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Delegate not found.")
	}
	return nil
}

func DailyCheckInStatus(db *sqlx.DB, id int64) ([5]bool, error) {
	delegate, err := GetDelegate(db, id)
	if err != nil {
		return [5]bool{}, err
	}
	return [5]bool{
		delegate.Day1CheckIn, delegate.Day2CheckIn, delegate.Day3CheckIn,
		delegate.Day4CheckIn, delegate.Day5CheckIn,
	}, nil
}

// ImportPreview splits parsed roster rows into the ones that would be
// added and the ones skipped as duplicates of existing records. Used by
// the admin console's duplicate-scan step before a bulk import commits.
func ImportPreview(db *sqlx.DB, rows []roster.Row) ([]roster.Row, []roster.Row, error) {
	existing := map[string]bool{}
	keys := []string{}
	if err := db.Select(&keys, `SELECT lower(trim(name)) || '|' || lower(trim(organization)) FROM delegates`); err != nil {
		return nil, nil, WrapError(err, "load dedupe keys")
	}
	for _, key := range keys {
		existing[key] = true
	}
	toAdd := []roster.Row{}
	skipped := []roster.Row{}
	seen := map[string]bool{}
	for _, row := range rows {
		key := roster.DedupeKey(row.Name, row.Organization)
		if strings.TrimSpace(row.Name) == "" || existing[key] || seen[key] {
			skipped = append(skipped, row)
			continue
		}
		seen[key] = true
		toAdd = append(toAdd, row)
	}
	return toAdd, skipped, nil
}

// ImportRows inserts non-duplicate rows, preserving numeric ids supplied by
// the file, then resyncs the id sequence so the next registration continues
// from max(id)+1.
func ImportRows(db *sqlx.DB, rows []roster.Row) (int, int, error) {
	toAdd, skipped, err := ImportPreview(db, rows)
	if err != nil {
		return 0, 0, err
	}
	added := 0
	for _, row := range toAdd {
		createdAt := parseRosterTime(row.CreatedAt)
		if id, err := strconv.ParseInt(strings.TrimSpace(row.ID), 10, 64); err == nil && id > 0 {
			_, err = db.Exec(`
INSERT INTO delegates (id, nationality, name, category, organization, role_title, email, phone, badge_photo, notes,
  checked_in, day1_checkin, day2_checkin, day3_checkin, day4_checkin, day5_checkin, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (id) DO NOTHING
`, id, row.Nationality, strings.TrimSpace(row.Name), row.Category, row.Organization, row.RoleTitle,
				row.Email, roster.NormalizePhone(row.Phone), row.BadgePhoto, row.Notes,
				row.CheckedIn, row.DayCheckIn[0], row.DayCheckIn[1], row.DayCheckIn[2], row.DayCheckIn[3], row.DayCheckIn[4],
				createdAt)
			if err != nil {
				return added, len(skipped), WrapError(err, "import row")
			}
		} else {
			_, err = db.Exec(`
INSERT INTO delegates (nationality, name, category, organization, role_title, email, phone, badge_photo, notes,
  checked_in, day1_checkin, day2_checkin, day3_checkin, day4_checkin, day5_checkin, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`, row.Nationality, strings.TrimSpace(row.Name), row.Category, row.Organization, row.RoleTitle,
				row.Email, roster.NormalizePhone(row.Phone), row.BadgePhoto, row.Notes,
				row.CheckedIn, row.DayCheckIn[0], row.DayCheckIn[1], row.DayCheckIn[2], row.DayCheckIn[3], row.DayCheckIn[4],
				createdAt)
			if err != nil {
				return added, len(skipped), WrapError(err, "import row")
			}
		}
		added++
	}
	if added > 0 {
		if err := ResyncDelegateSequence(db); err != nil {
			return added, len(skipped), err
		}
	}
	return added, len(skipped), nil
}

// ResyncDelegateSequence moves the id sequence past any explicitly
// inserted ids so sequence-assigned ids stay monotonic.
func ResyncDelegateSequence(db *sqlx.DB) error {
	_, err := db.Exec(`SELECT setval('delegates_id_seq', (SELECT COALESCE(MAX(id), 0) + 1 FROM delegates), false)`)
	return WrapError(err, "resync delegate sequence")
}

// ExportRows renders the full roster in the exchange-file form.
func ExportRows(db *sqlx.DB) ([]roster.Row, error) {
	delegates, err := ListDelegates(db, "", "")
	if err != nil {
		return nil, err
	}
	rows := make([]roster.Row, 0, len(delegates))
	for _, d := range delegates {
		rows = append(rows, roster.Row{
			Nationality:  d.Nationality,
			ID:           strconv.FormatInt(d.ID, 10),
			Name:         d.Name,
			Category:     d.Category,
			Organization: d.Organization,
			RoleTitle:    d.RoleTitle,
			Email:        d.Email,
			Phone:        d.Phone,
			BadgePhoto:   d.BadgePhoto,
			Notes:        d.Notes,
			CheckedIn:    d.CheckedIn,
			DayCheckIn:   [5]bool{d.Day1CheckIn, d.Day2CheckIn, d.Day3CheckIn, d.Day4CheckIn, d.Day5CheckIn},
			CreatedAt:    d.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

func parseRosterTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Now().UTC()
}
