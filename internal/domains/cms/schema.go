package cms

import (
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
)

// Upload folders, one per media family.
const (
	FolderCarousels    = "carousels"
	FolderIcons        = "icons"
	FolderAttractions  = "attractions"
	FolderDestinations = "destinations"
	FolderGallery      = "gallery"
	FolderNews         = "news"
	FolderFacilities   = "facilities"
	FolderContent      = "content"
)

// Contact types accepted by ContactInfo.
var ContactTypes = []string{"phone", "email", "address", "social", "website"}

const (
	maxTitle   = 200
	maxSummary = 500
)

var (
	CarouselSchema = form.NewSchema("carousel",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("subtitle", false).WithMax(maxSummary),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.Bilingual("alt_text", false).WithMax(maxTitle),
		form.Order("carousel_order"),
		form.Bool("is_active", true),
	)

	SellingPointSchema = form.NewSchema("selling point",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("description", true).WithMax(maxSummary),
		form.URL("icon_url", true).WithLabel("Icon"),
		form.Order("selling_point_order"),
		form.Bool("is_active", true),
	)

	AttractionSchema = form.NewSchema("attraction",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("subtitle", false).WithMax(maxSummary),
		form.Bilingual("description", true),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.Order("attraction_order"),
		form.Bool("is_featured", false),
		form.Bool("is_active", true),
	)

	DestinationCategorySchema = form.NewSchema("destination category",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Slug("slug", "name", false),
		form.Order("category_order"),
	)

	DestinationSchema = form.NewSchema("destination",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("subtitle", false).WithMax(maxSummary),
		form.Bilingual("description", true),
		form.Slug("slug", "title", false),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.ForeignKey("category_id", "destination-categories"),
		form.Order("destination_order"),
		form.Bool("is_featured", false),
		form.Bool("is_active", true),
	)

	GalleryCategorySchema = form.NewSchema("gallery category",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Slug("slug", "name", false),
	)

	GalleryImageSchema = form.NewSchema("gallery image",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("short_description", false).WithMax(maxSummary),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.ForeignKey("category_id", "gallery-categories"),
		form.Order("gallery_order"),
		form.Bool("is_active", true),
	)

	RegulationCategorySchema = form.NewSchema("regulation category",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Bilingual("description", false).WithMax(maxSummary),
		form.Order("category_order"),
	)

	RegulationSchema = form.NewSchema("regulation",
		form.Bilingual("question", true).WithMax(maxSummary),
		form.Bilingual("answer", true),
		form.ForeignKey("category_id", "regulation-categories"),
		form.Order("regulation_order"),
		form.Bool("is_active", true),
	)

	NewsCategorySchema = form.NewSchema("news category",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Slug("slug", "name", false),
	)

	NewsAuthorSchema = form.NewSchema("news author",
		form.Text("name", true).WithMax(maxTitle),
		form.Bilingual("role", false).WithMax(maxTitle),
		form.Email("email", false),
		form.URL("avatar_url", false),
	)

	NewsArticleSchema = form.NewSchema("news article",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Bilingual("excerpt", true).WithMax(maxSummary),
		form.Bilingual("content", true),
		form.Slug("slug", "title", true),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.ForeignKey("category_id", "news-categories"),
		form.ForeignKey("author_id", "news-authors"),
		form.Date("date_published", true).WithLabel("Publish date"),
		form.Int("read_time", true).WithLabel("Read time (minutes)"),
		form.Bool("is_featured", false),
	)

	FacilityCategorySchema = form.NewSchema("facility category",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Order("category_order"),
	)

	FacilitySchema = form.NewSchema("facility",
		form.Bilingual("name", true).WithMax(maxTitle),
		form.Bilingual("description", true),
		form.URL("image_url", true),
		form.Thumbnail("thumbnail_url", "image_url"),
		form.ForeignKey("category_id", "facility-categories"),
		form.Int("capacity", false).WithLabel("Capacity"),
		form.Order("facility_order"),
		form.Bool("is_active", true),
	)

	ContactInfoSchema = form.NewSchema("contact info",
		form.Bilingual("title", true).WithMax(maxTitle),
		form.Choice("contact_type", ContactTypes...).WithLabel("Contact type"),
		form.Text("value", true).WithMax(maxSummary),
		form.URL("link_url", false),
		form.URL("icon_url", false).WithLabel("Icon"),
		form.Order("contact_order"),
		form.Bool("is_active", true),
	)

	PageContentSchema = form.NewSchema("page content",
		form.Bilingual("hero_title", true).WithMax(maxTitle),
		form.Bilingual("hero_subtitle", false).WithMax(maxSummary),
		form.URL("hero_image_url", false),
		form.Bilingual("section_title", false).WithMax(maxTitle),
		form.Bilingual("section_subtitle", false).WithMax(maxSummary),
		form.Bilingual("cta_label", false).WithMax(maxTitle),
		form.URL("cta_url", false),
	)
)
