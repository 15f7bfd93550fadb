package live

import (
	"time"

	"github.com/monarkh/site/internal/reveal"
)

// Region names a page section with its own visibility signal.
type Region string

const (
	RegionHero       Region = "hero"
	RegionPortfolio  Region = "portfolio"
	RegionNewsletter Region = "newsletter"
)

// Layout lists the animated regions of a page.
type Layout struct {
	Name    string
	Regions []RegionSpec
	// CounterRegion drives the count-up; empty means the page has none.
	CounterRegion Region
	// Carousel enables the portfolio carousel.
	Carousel bool
	Intro    bool
}

// RegionSpec is a region and the elements it reveals.
type RegionSpec struct {
	Region   Region
	Elements []reveal.Element
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// StatTileCount is the number of counters in the portfolio section.
const StatTileCount = 5

func portfolioElements() []reveal.Element {
	els := []reveal.Element{
		{Name: "kicker", From: reveal.FromBelow},
		{Name: "creative", From: reveal.FromLeft, Delay: ms(200)},
		{Name: "personal", From: reveal.FromRight, Delay: ms(300)},
		{Name: "portfolio", From: reveal.FromBelow, Delay: ms(400)},
		{Name: "templates", From: reveal.FromBelow, Delay: ms(500)},
	}
	for i := 0; i < StatTileCount; i++ {
		els = append(els, reveal.Element{Name: "tile", From: reveal.FromBelow, Delay: ms((i + 6) * 150)})
	}
	return els
}

func newsletterElements() []reveal.Element {
	return []reveal.Element{
		{Name: "icon", From: reveal.FromBelow},
		{Name: "heading", From: reveal.FromLeft, Delay: ms(200)},
		{Name: "form", From: reveal.FromBelow, Delay: ms(400)},
	}
}

// HomeLayout is the landing page.
func HomeLayout() Layout {
	return Layout{
		Name: "home",
		Regions: []RegionSpec{
			{Region: RegionHero, Elements: []reveal.Element{
				{Name: "welcome", From: reveal.FromBelow},
				{Name: "headline", From: reveal.FromLeft, Delay: ms(200)},
				{Name: "lede", From: reveal.FromRight, Delay: ms(400)},
			}},
			{Region: RegionPortfolio, Elements: portfolioElements()},
			{Region: RegionNewsletter, Elements: newsletterElements()},
		},
		CounterRegion: RegionPortfolio,
		Carousel:      true,
		Intro:         true,
	}
}

// ArticlesLayout is the articles page: intro and newsletter only.
func ArticlesLayout() Layout {
	return Layout{
		Name: "articles",
		Regions: []RegionSpec{
			{Region: RegionNewsletter, Elements: newsletterElements()},
		},
		Intro: true,
	}
}

// LayoutByName returns the named layout.
func LayoutByName(name string) (Layout, bool) {
	switch name {
	case "", "home":
		return HomeLayout(), true
	case "articles":
		return ArticlesLayout(), true
	}
	return Layout{}, false
}
