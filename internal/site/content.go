package site

import "github.com/monarkh/site/internal/reveal"

type MenuItem struct {
	ID    string
	Label string
	Href  string
}

type Stat struct {
	Label  string
	Target int
}

type Footer struct {
	Name     string
	Tagline  string
	City     string
	Country  string
	Email    string
	Phone    string
	PhoneURI string
	Social   []string
}

// Content is the copy shared by every page.
type Content struct {
	Menu    []MenuItem
	Slides  []string
	Banners []string
	Stats   []Stat
	Footer  Footer
}

var statLabels = []string{
	"Portfolio homepages",
	"Elegant inner pages",
	"Custom components",
	"Design variations",
	"Premium elements",
}

// DefaultContent returns the site copy.
func DefaultContent() Content {
	stats := make([]Stat, len(statLabels))
	for i, label := range statLabels {
		stats[i] = Stat{Label: label}
		if i < len(reveal.PortfolioTargets) {
			stats[i].Target = reveal.PortfolioTargets[i]
		}
	}

	return Content{
		Menu: []MenuItem{
			{ID: "home", Label: "HOME", Href: "/"},
			{ID: "about", Label: "ABOUT", Href: "/about"},
			{ID: "portfolio", Label: "PORTFOLIO", Href: "/portfolio"},
			{ID: "projects", Label: "PROJECTS", Href: "/projects"},
			{ID: "articles", Label: "ARTICLES", Href: "/articles"},
			{ID: "resources", Label: "RESOURCES", Href: "/resources"},
			{ID: "contact", Label: "CONTACT", Href: "/contact"},
		},
		Slides: []string{
			"/assets/images/artdoll.png",
			"/assets/images/fantasyscene.png",
			"/assets/images/dolly01.png",
			"/assets/images/artgirl.png",
			"/assets/images/artgirl2.png",
		},
		Banners: []string{"Generative AI", "Custom Coding", "Research", "DevOps"},
		Stats:   stats,
		Footer: Footer{
			Name:     "John Li",
			Tagline:  "Portfolio, Projects, and Resources",
			City:     "Abu Dhabi",
			Country:  "United Arab Emirates",
			Email:    "hi@johnny.ae",
			Phone:    "054 376 2321",
			PhoneURI: "054-376-2321",
			Social:   []string{"Facebook", "X/Twitter", "Instagram"},
		},
	}
}
