package cms

import (
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
)

// Resource paths.
const (
	PathCarousels             = "carousels"
	PathSellingPoints         = "selling-points"
	PathAttractions           = "attractions"
	PathDestinationCategories = "destination-categories"
	PathDestinations          = "destinations"
	PathGalleryCategories     = "gallery-categories"
	PathGallery               = "gallery"
	PathRegulationCategories  = "regulation-categories"
	PathRegulations           = "regulations"
	PathNewsCategories        = "news-categories"
	PathNewsAuthors           = "news-authors"
	PathNews                  = "news"
	PathFacilityCategories    = "facility-categories"
	PathFacilities            = "facilities"
	PathContactInfo           = "contact-info"
)

// Pages with an editable content singleton.
var Pages = []string{"home", "profile", "destinations", "gallery", "regulations", "facilities", "news", "contact"}

// ContentPath returns the singleton path of page.
func ContentPath(page string) string {
	return "content/" + page
}

var (
	Carousels     = resource.Descriptor{Name: "carousel", Path: PathCarousels, Schema: CarouselSchema, Folder: FolderCarousels}
	SellingPoints = resource.Descriptor{Name: "selling point", Path: PathSellingPoints, Schema: SellingPointSchema, Folder: FolderIcons}
	Attractions   = resource.Descriptor{Name: "attraction", Path: PathAttractions, Schema: AttractionSchema, Folder: FolderAttractions}

	DestinationCategories = resource.Descriptor{
		Name: "destination category", Path: PathDestinationCategories, Schema: DestinationCategorySchema,
		Related: []string{PathDestinations},
	}
	Destinations = resource.Descriptor{Name: "destination", Path: PathDestinations, Schema: DestinationSchema, Folder: FolderDestinations}

	GalleryCategories = resource.Descriptor{
		Name: "gallery category", Path: PathGalleryCategories, Schema: GalleryCategorySchema,
		Related: []string{PathGallery},
	}
	Gallery = resource.Descriptor{Name: "gallery image", Path: PathGallery, Schema: GalleryImageSchema, Folder: FolderGallery}

	RegulationCategories = resource.Descriptor{
		Name: "regulation category", Path: PathRegulationCategories, Schema: RegulationCategorySchema,
		Related: []string{PathRegulations},
	}
	Regulations = resource.Descriptor{Name: "regulation", Path: PathRegulations, Schema: RegulationSchema}

	NewsCategories = resource.Descriptor{
		Name: "news category", Path: PathNewsCategories, Schema: NewsCategorySchema,
		Related: []string{PathNews},
	}
	NewsAuthors = resource.Descriptor{
		Name: "news author", Path: PathNewsAuthors, Schema: NewsAuthorSchema, Folder: FolderNews,
		Related: []string{PathNews},
	}
	News = resource.Descriptor{Name: "news article", Path: PathNews, Schema: NewsArticleSchema, Folder: FolderNews}

	FacilityCategories = resource.Descriptor{
		Name: "facility category", Path: PathFacilityCategories, Schema: FacilityCategorySchema,
		Related: []string{PathFacilities},
	}
	Facilities = resource.Descriptor{Name: "facility", Path: PathFacilities, Schema: FacilitySchema, Folder: FolderFacilities}

	ContactInfos = resource.Descriptor{Name: "contact info", Path: PathContactInfo, Schema: ContactInfoSchema, Folder: FolderIcons}
)

// Content returns the descriptor of page's content singleton.
func Content(page string) resource.Descriptor {
	return resource.Descriptor{
		Name:      page + " page content",
		Path:      ContentPath(page),
		Schema:    PageContentSchema,
		Folder:    FolderContent,
		Singleton: true,
	}
}

// NewRegistry returns every CMS resource, categories before the records
// that reference them.
func NewRegistry() *resource.Registry {
	reg := resource.NewRegistry(
		Carousels, SellingPoints, Attractions,
		DestinationCategories, Destinations,
		GalleryCategories, Gallery,
		RegulationCategories, Regulations,
		NewsCategories, NewsAuthors, News,
		FacilityCategories, Facilities,
		ContactInfos,
	)
	for _, page := range Pages {
		reg.Register(Content(page))
	}
	return reg
}

// Services holds one typed service per resource, all sharing one client and
// one cache.
type Services struct {
	Carousels             *resource.Service[Carousel]
	SellingPoints         *resource.Service[SellingPoint]
	Attractions           *resource.Service[Attraction]
	DestinationCategories *resource.Service[DestinationCategory]
	Destinations          *resource.Service[Destination]
	GalleryCategories     *resource.Service[GalleryCategory]
	Gallery               *resource.Service[GalleryImage]
	RegulationCategories  *resource.Service[RegulationCategory]
	Regulations           *resource.Service[Regulation]
	NewsCategories        *resource.Service[NewsCategory]
	NewsAuthors           *resource.Service[NewsAuthor]
	News                  *resource.Service[NewsArticle]
	FacilityCategories    *resource.Service[FacilityCategory]
	Facilities            *resource.Service[Facility]
	ContactInfo           *resource.Service[ContactInfo]
	Content               map[string]*resource.Service[PageContent]
}

func NewServices(api *client.Client, cache *query.Cache) *Services {
	s := &Services{
		Carousels:             resource.NewService[Carousel](Carousels, api, cache),
		SellingPoints:         resource.NewService[SellingPoint](SellingPoints, api, cache),
		Attractions:           resource.NewService[Attraction](Attractions, api, cache),
		DestinationCategories: resource.NewService[DestinationCategory](DestinationCategories, api, cache),
		Destinations:          resource.NewService[Destination](Destinations, api, cache),
		GalleryCategories:     resource.NewService[GalleryCategory](GalleryCategories, api, cache),
		Gallery:               resource.NewService[GalleryImage](Gallery, api, cache),
		RegulationCategories:  resource.NewService[RegulationCategory](RegulationCategories, api, cache),
		Regulations:           resource.NewService[Regulation](Regulations, api, cache),
		NewsCategories:        resource.NewService[NewsCategory](NewsCategories, api, cache),
		NewsAuthors:           resource.NewService[NewsAuthor](NewsAuthors, api, cache),
		News:                  resource.NewService[NewsArticle](News, api, cache),
		FacilityCategories:    resource.NewService[FacilityCategory](FacilityCategories, api, cache),
		Facilities:            resource.NewService[Facility](Facilities, api, cache),
		ContactInfo:           resource.NewService[ContactInfo](ContactInfos, api, cache),
		Content:               make(map[string]*resource.Service[PageContent], len(Pages)),
	}
	for _, page := range Pages {
		s.Content[page] = resource.NewService[PageContent](Content(page), api, cache)
	}
	return s
}
