package persist

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// FragmentKey is the fragment parameter holding the encoded snapshot
const FragmentKey = "data"

// Fragment keeps the snapshot in the fragment of a shareable viewer link,
// e.g. usdzview://view?file=chair.usdz#data=W10%3D
type Fragment struct {
	mu       sync.Mutex
	link     url.URL
	onChange func(string)
}

// NewFragment creates a fragment store for link. An existing data
// parameter in the link becomes the stored snapshot.
func NewFragment(link string) (*Fragment, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid link: %w", err)
	}
	return &Fragment{link: *u}, nil
}

// ViewerLink builds the link that opens source in the viewer
func ViewerLink(source string) string {
	u := url.URL{
		Scheme:   "usdzview",
		Host:     "view",
		RawQuery: url.Values{"file": {source}}.Encode(),
	}
	return u.String()
}

// OnChange registers a callback receiving the new link after every save
func (f *Fragment) OnChange(fn func(link string)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// String returns the current link
func (f *Fragment) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.link.String()
}

// Save writes the encoded snapshot into the link fragment
func (f *Fragment) Save(s Snapshot) error {
	blob, err := Encode(s)
	if err != nil {
		return err
	}

	f.mu.Lock()
	// The blob is already escaped; RawFragment keeps it verbatim
	f.link.Fragment, _ = url.PathUnescape(FragmentKey + "=" + blob)
	f.link.RawFragment = FragmentKey + "=" + blob
	link := f.link.String()
	fn := f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn(link)
	}
	return nil
}

// Load decodes the data parameter of the link fragment
func (f *Fragment) Load() (Snapshot, bool, error) {
	f.mu.Lock()
	raw := f.link.EscapedFragment()
	f.mu.Unlock()

	blob, ok := fragmentValue(raw, FragmentKey)
	if !ok {
		return nil, false, nil
	}
	snap, err := Decode(blob)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// fragmentValue finds key=value in an escaped fragment of &-separated
// pairs; the value is returned still escaped.
func fragmentValue(fragment, key string) (string, bool) {
	for _, part := range strings.Split(fragment, "&") {
		k, v, found := strings.Cut(part, "=")
		if found && k == key {
			return v, true
		}
	}
	return "", false
}
