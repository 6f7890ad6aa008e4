package cms

import (
	"time"
)

// Entity is a resource record addressable by id. Singletons report 0.
type Entity interface {
	Identity() int64
}

// Record carries the id and audit timestamps shared by every list resource.
type Record struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Record) Identity() int64 { return r.ID }

// =====================================================
// HOME
// =====================================================

type Carousel struct {
	Record
	Title         string `json:"title"`
	TitleID       string `json:"title_id"`
	Subtitle      string `json:"subtitle"`
	SubtitleID    string `json:"subtitle_id"`
	ImageURL      string `json:"image_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	AltText       string `json:"alt_text"`
	AltTextID     string `json:"alt_text_id"`
	CarouselOrder int    `json:"carousel_order"`
	IsActive      bool   `json:"is_active"`
}

func (c Carousel) SortOrder() int { return c.CarouselOrder }

type SellingPoint struct {
	Record
	Title             string `json:"title"`
	TitleID           string `json:"title_id"`
	Description       string `json:"description"`
	DescriptionID     string `json:"description_id"`
	IconURL           string `json:"icon_url"`
	SellingPointOrder int    `json:"selling_point_order"`
	IsActive          bool   `json:"is_active"`
}

func (s SellingPoint) SortOrder() int { return s.SellingPointOrder }

type Attraction struct {
	Record
	Title           string `json:"title"`
	TitleID         string `json:"title_id"`
	Subtitle        string `json:"subtitle"`
	SubtitleID      string `json:"subtitle_id"`
	Description     string `json:"description"`
	DescriptionID   string `json:"description_id"`
	ImageURL        string `json:"image_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	AttractionOrder int    `json:"attraction_order"`
	IsFeatured      bool   `json:"is_featured"`
	IsActive        bool   `json:"is_active"`
}

func (a Attraction) SortOrder() int { return a.AttractionOrder }

// =====================================================
// DESTINATIONS
// =====================================================

type DestinationCategory struct {
	Record
	Name          string `json:"name"`
	NameID        string `json:"name_id"`
	Slug          string `json:"slug"`
	CategoryOrder int    `json:"category_order"`
}

func (c DestinationCategory) SortOrder() int { return c.CategoryOrder }

type Destination struct {
	Record
	Title            string `json:"title"`
	TitleID          string `json:"title_id"`
	Subtitle         string `json:"subtitle"`
	SubtitleID       string `json:"subtitle_id"`
	Description      string `json:"description"`
	DescriptionID    string `json:"description_id"`
	Slug             string `json:"slug"`
	ImageURL         string `json:"image_url"`
	ThumbnailURL     string `json:"thumbnail_url"`
	CategoryID       int64  `json:"category_id"`
	DestinationOrder int    `json:"destination_order"`
	IsFeatured       bool   `json:"is_featured"`
	IsActive         bool   `json:"is_active"`
}

func (d Destination) SortOrder() int { return d.DestinationOrder }

// =====================================================
// GALLERY
// =====================================================

type GalleryCategory struct {
	Record
	Name   string `json:"name"`
	NameID string `json:"name_id"`
	Slug   string `json:"slug"`
}

type GalleryImage struct {
	Record
	Title              string `json:"title"`
	TitleID            string `json:"title_id"`
	ShortDescription   string `json:"short_description"`
	ShortDescriptionID string `json:"short_description_id"`
	ImageURL           string `json:"image_url"`
	ThumbnailURL       string `json:"thumbnail_url"`
	CategoryID         int64  `json:"category_id"`
	GalleryOrder       int    `json:"gallery_order"`
	IsActive           bool   `json:"is_active"`
}

func (g GalleryImage) SortOrder() int { return g.GalleryOrder }

// =====================================================
// REGULATIONS
// =====================================================

type RegulationCategory struct {
	Record
	Name          string `json:"name"`
	NameID        string `json:"name_id"`
	Description   string `json:"description"`
	DescriptionID string `json:"description_id"`
	CategoryOrder int    `json:"category_order"`
}

func (c RegulationCategory) SortOrder() int { return c.CategoryOrder }

type Regulation struct {
	Record
	Question        string `json:"question"`
	QuestionID      string `json:"question_id"`
	Answer          string `json:"answer"`
	AnswerID        string `json:"answer_id"`
	CategoryID      int64  `json:"category_id"`
	RegulationOrder int    `json:"regulation_order"`
	IsActive        bool   `json:"is_active"`
}

func (r Regulation) SortOrder() int { return r.RegulationOrder }

// =====================================================
// NEWS
// =====================================================

type NewsCategory struct {
	Record
	Name   string `json:"name"`
	NameID string `json:"name_id"`
	Slug   string `json:"slug"`
}

type NewsAuthor struct {
	Record
	Name      string `json:"name"`
	Role      string `json:"role"`
	RoleID    string `json:"role_id"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type NewsArticle struct {
	Record
	Title         string `json:"title"`
	TitleID       string `json:"title_id"`
	Excerpt       string `json:"excerpt"`
	ExcerptID     string `json:"excerpt_id"`
	Content       string `json:"content"`
	ContentID     string `json:"content_id"`
	Slug          string `json:"slug"`
	ImageURL      string `json:"image_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	CategoryID    int64  `json:"category_id"`
	AuthorID      int64  `json:"author_id"`
	DatePublished string `json:"date_published"` // YYYY-MM-DD
	ReadTime      int    `json:"read_time"`      // minutes
	IsFeatured    bool   `json:"is_featured"`
}

// =====================================================
// FACILITIES
// =====================================================

type FacilityCategory struct {
	Record
	Name          string `json:"name"`
	NameID        string `json:"name_id"`
	CategoryOrder int    `json:"category_order"`
}

func (c FacilityCategory) SortOrder() int { return c.CategoryOrder }

type Facility struct {
	Record
	Name          string `json:"name"`
	NameID        string `json:"name_id"`
	Description   string `json:"description"`
	DescriptionID string `json:"description_id"`
	ImageURL      string `json:"image_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	CategoryID    int64  `json:"category_id"`
	Capacity      *int   `json:"capacity"`
	FacilityOrder int    `json:"facility_order"`
	IsActive      bool   `json:"is_active"`
}

func (f Facility) SortOrder() int { return f.FacilityOrder }

// =====================================================
// CONTACT
// =====================================================

type ContactInfo struct {
	Record
	Title        string `json:"title"`
	TitleID      string `json:"title_id"`
	ContactType  string `json:"contact_type"`
	Value        string `json:"value"`
	LinkURL      string `json:"link_url"`
	IconURL      string `json:"icon_url"`
	ContactOrder int    `json:"contact_order"`
	IsActive     bool   `json:"is_active"`
}

func (c ContactInfo) SortOrder() int { return c.ContactOrder }

// =====================================================
// PAGE CONTENT
// =====================================================

// PageContent is the editable copy of one public page. There is exactly one
// per page, addressed by page name rather than id.
type PageContent struct {
	HeroTitle         string    `json:"hero_title"`
	HeroTitleID       string    `json:"hero_title_id"`
	HeroSubtitle      string    `json:"hero_subtitle"`
	HeroSubtitleID    string    `json:"hero_subtitle_id"`
	HeroImageURL      string    `json:"hero_image_url"`
	SectionTitle      string    `json:"section_title"`
	SectionTitleID    string    `json:"section_title_id"`
	SectionSubtitle   string    `json:"section_subtitle"`
	SectionSubtitleID string    `json:"section_subtitle_id"`
	CTALabel          string    `json:"cta_label"`
	CTALabelID        string    `json:"cta_label_id"`
	CTAURL            string    `json:"cta_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (PageContent) Identity() int64 { return 0 }
