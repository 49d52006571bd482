package domain

// BankEntry is one receiving bank as presented to callers, whatever directory it came from.
type BankEntry struct {
	ShortName string   `json:"shortName"`
	Logo      string   `json:"logo,omitempty"`
	Bins      []string `json:"bins"`
}

// BankCodePage is one page of the processor bank-code directory.
type BankCodePage struct {
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
	Data       []BankEntry `json:"data"`
}

type ListingSource string

const (
	SourceCache  ListingSource = "cache"
	SourceRemote ListingSource = "remote"
)

// BankListing is the public bank listing together with where it was served from.
type BankListing struct {
	Source ListingSource `json:"source"`
	Data   []BankEntry   `json:"data"`
}

// EndpointCandidate is one method+path combination tried while probing for the bank-code directory.
type EndpointCandidate struct {
	Method string
	Path   string
}

func (c EndpointCandidate) String() string {
	return c.Method + " " + c.Path
}
