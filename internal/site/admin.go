package site

// AdminData feeds the admin template. Counts arrive preformatted.
type AdminData struct {
	Total       string
	Sources     []AdminSource
	Subscribers []AdminSubscriber
}

type AdminSource struct {
	Source string
	Count  string
}

type AdminSubscriber struct {
	Email  string
	Source string
	Joined string
}
