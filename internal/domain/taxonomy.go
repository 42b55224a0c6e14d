package domain

import "strconv"

// TaxonomyID is the identifier the remote service assigns to a taxonomy
type TaxonomyID int64

func (id TaxonomyID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// CreateTaxonomyRequest is the body of POST /taxonomies/.
// Parent is a pointer so that a zero id is still sent as a parent.
type CreateTaxonomyRequest struct {
	Title  string      `json:"title"`
	Color  int         `json:"color"`
	Parent *TaxonomyID `json:"parent,omitempty"`
}

// Taxonomy is the server-side record returned after creation
type Taxonomy struct {
	ID     *TaxonomyID `json:"id"`
	Title  string      `json:"title,omitempty"`
	Color  int         `json:"color,omitempty"`
	Parent *TaxonomyID `json:"parent,omitempty"`
}
