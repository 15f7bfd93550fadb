package visibility

// Target is an opaque handle to a page region. A page creates it when the
// region is rendered and mounts it once the region exists in the document.
type Target struct {
	id       string
	mounted  bool
	watchers []*Observer
}

// NewTarget returns an unmounted target.
func NewTarget(id string) *Target {
	return &Target{id: id}
}

func (t *Target) ID() string { return t.id }

func (t *Target) Mounted() bool { return t.mounted }

// Mount marks the region as present and starts any deferred observation.
func (t *Target) Mount() {
	if t.mounted {
		return
	}
	t.mounted = true
	for _, o := range t.watchers {
		o.attach()
	}
}

// Unmount removes the region. Every observer watching it is discarded.
func (t *Target) Unmount() {
	if !t.mounted {
		return
	}
	t.mounted = false
	watchers := t.watchers
	t.watchers = nil
	for _, o := range watchers {
		o.Close()
	}
}

func (t *Target) watch(o *Observer) {
	for _, w := range t.watchers {
		if w == o {
			return
		}
	}
	t.watchers = append(t.watchers, o)
}

func (t *Target) unwatch(o *Observer) {
	for i, w := range t.watchers {
		if w == o {
			t.watchers = append(t.watchers[:i], t.watchers[i+1:]...)
			return
		}
	}
}
