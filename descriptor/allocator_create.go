package descriptor

import "github.com/gallus-engine/gallus/internal/utils"

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = utils.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized ensures that this allocator and all pages created from it will
	// not be synchronized internally. The consumer must guarantee they are used from only one
	// thread at a time or are synchronized by some other mechanism, but performance may improve
	// because internal mutexes are not used.
	CreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}

const (
	// defaultDescriptorsPerPage is the value that is used as DescriptorsPerPage when none is
	// provided via CreateOptions
	defaultDescriptorsPerPage int = 256
)

// CreateOptions contains optional settings when creating an allocator or page
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
	// DescriptorsPerPage is the capacity of each page the allocator creates. Requests for more
	// descriptors than this receive a page sized to fit them. If 0, 256 is used.
	DescriptorsPerPage int
	// ShaderVisible creates heaps that shaders can address through GPU descriptor handles. Only
	// CBV/SRV/UAV and sampler heaps may be shader visible.
	ShaderVisible bool
}

func (o CreateOptions) descriptorsPerPage() int {
	if o.DescriptorsPerPage <= 0 {
		return defaultDescriptorsPerPage
	}

	return o.DescriptorsPerPage
}

func (o CreateOptions) useMutex() bool {
	return o.Flags&CreateExternallySynchronized == 0
}
