package giphy

// Response is the search endpoint body. Only the fields the browser reads
// are decoded.
type Response struct {
	Data []Record `json:"data"`
	Meta Meta     `json:"meta"`
}

type Record struct {
	Rating string `json:"rating"`
	Images Images `json:"images"`
}

type Images struct {
	OriginalStill Rendition `json:"original_still"`
	Original      Rendition `json:"original"`
}

type Rendition struct {
	URL string `json:"url"`
}

type Meta struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// StillURL is the static rendering.
func (r Record) StillURL() string {
	return r.Images.OriginalStill.URL
}

// AnimatedURL is the animated rendering.
func (r Record) AnimatedURL() string {
	return r.Images.Original.URL
}
