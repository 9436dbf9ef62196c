package models

import "time"

// Delegate is one attendee/staff record on the conference roster.
// IDs are numeric but travel as decimal strings in the API and the
// roster CSV, matching the badge printing pipeline.
type Delegate struct {
	ID           int64     `db:"id" json:"id,string"`
	Nationality  string    `db:"nationality" json:"nationality"`
	Name         string    `db:"name" json:"name"`
	Category     string    `db:"category" json:"category"`
	Organization string    `db:"organization" json:"organization"`
	RoleTitle    string    `db:"role_title" json:"roleTitle"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	BadgePhoto   string    `db:"badge_photo" json:"badgePhoto"`
	Notes        string    `db:"notes" json:"notes"`
	CheckedIn    bool      `db:"checked_in" json:"checkedIn"`
	Day1CheckIn  bool      `db:"day1_checkin" json:"day1CheckIn"`
	Day2CheckIn  bool      `db:"day2_checkin" json:"day2CheckIn"`
	Day3CheckIn  bool      `db:"day3_checkin" json:"day3CheckIn"`
	Day4CheckIn  bool      `db:"day4_checkin" json:"day4CheckIn"`
	Day5CheckIn  bool      `db:"day5_checkin" json:"day5CheckIn"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Interaction is one directed networking event between two delegates.
type Interaction struct {
	ID           int64     `db:"id" json:"id"`
	FromUserID   int64     `db:"from_user_id" json:"fromUserId,string"`
	ToUserID     int64     `db:"to_user_id" json:"toUserId,string"`
	FromUserName string    `db:"from_user_name" json:"fromUserName"`
	ToUserName   string    `db:"to_user_name" json:"toUserName"`
	Type         string    `db:"type" json:"type"`
	Status       string    `db:"status" json:"status"`
	Message      string    `db:"message" json:"message"`
	MeetingType  *string   `db:"meeting_type" json:"meetingType,omitempty"`
	ContactEmail *string   `db:"contact_email" json:"contactEmail,omitempty"`
	ContactPhone *string   `db:"contact_phone" json:"contactPhone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Priority  string    `db:"priority" json:"priority"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type NewsItem struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Content      string    `db:"content" json:"content"`
	Category     string    `db:"category" json:"category"`
	ImageAssetID *string   `db:"image_asset_id" json:"imageAssetId,omitempty"`
	CreatedBy    string    `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// PRPost carries engagement counters alongside the content; the counters
// are maintained from pr_interactions rows.
type PRPost struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Content      string    `db:"content" json:"content"`
	Hashtags     []byte    `db:"hashtags" json:"-"`
	ImageAssetID *string   `db:"image_asset_id" json:"imageAssetId,omitempty"`
	Views        int64     `db:"views" json:"views"`
	Likes        int64     `db:"likes" json:"likes"`
	Shares       int64     `db:"shares" json:"shares"`
	CreatedBy    string    `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type PRInteraction struct {
	ID         int64     `db:"id" json:"id"`
	PostID     int64     `db:"post_id" json:"postId"`
	DelegateID int64     `db:"delegate_id" json:"delegateId,string"`
	UserName   string    `db:"user_name" json:"userName"`
	Type       string    `db:"type" json:"type"`
	Content    *string   `db:"content" json:"content,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type Notification struct {
	ID         int64     `db:"id" json:"id"`
	DelegateID int64     `db:"delegate_id" json:"delegateId,string"`
	Type       string    `db:"type" json:"type"`
	Title      string    `db:"title" json:"title"`
	Message    string    `db:"message" json:"message"`
	Priority   string    `db:"priority" json:"priority"`
	Data       []byte    `db:"data" json:"-"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type Speaker struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Title        string  `db:"title" json:"title"`
	Organization string  `db:"organization" json:"organization"`
	Bio          string  `db:"bio" json:"bio"`
	PhotoAssetID *string `db:"photo_asset_id" json:"photoAssetId,omitempty"`
}

type AgendaSession struct {
	ID    int64  `db:"id" json:"id"`
	Day   string `db:"day" json:"day"`
	Time  string `db:"time" json:"time"`
	Title string `db:"title" json:"title"`
	Room  string `db:"room" json:"room"`
}

type Exhibitor struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Booth       string  `db:"booth" json:"booth"`
	Description string  `db:"description" json:"description"`
	LogoAssetID *string `db:"logo_asset_id" json:"logoAssetId,omitempty"`
}

type Sponsor struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Tier        string  `db:"tier" json:"tier"`
	Website     string  `db:"website" json:"website"`
	LogoAssetID *string `db:"logo_asset_id" json:"logoAssetId,omitempty"`
}

type Material struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	FileAssetID *string   `db:"file_asset_id" json:"fileAssetId,omitempty"`
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Venue struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Address string `db:"address" json:"address"`
	MapURL  string `db:"map_url" json:"mapUrl"`
	Details string `db:"details" json:"details"`
}

type MediaAsset struct {
	ID          string    `db:"id"`
	Bucket      string    `db:"bucket"`
	StorageKey  string    `db:"storage_key"`
	Filename    *string   `db:"filename"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	Sha256      *string   `db:"sha256"`
	CreatedAt   time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
