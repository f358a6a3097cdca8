package fsobj

// Type is the kind of a filesystem object. Values equal the POSIX S_IFMT
// bits so a stat mode maps onto a Type by masking.
type Type uint32

// Type values.
const (
	TypeUnknown     Type = 0
	TypeFIFO        Type = 0o010000
	TypeCharDevice  Type = 0o020000
	TypeDirectory   Type = 0o040000
	TypeBlockDevice Type = 0o060000
	TypeRegularFile Type = 0o100000
	TypeSymlink     Type = 0o120000
	TypeSocket      Type = 0o140000
)

// typeMask selects the file type bits of a stat mode.
const typeMask uint32 = 0o170000

// DefaultMode is the permission used for implicitly created directories,
// before the process umask applies.
const DefaultMode uint32 = 0o777

// String returns the upper-case name used in diagnostics, such as
// "REGULAR_FILE".
func (t Type) String() string {
	switch t {
	case TypeFIFO:
		return "FIFO"
	case TypeCharDevice:
		return "CHAR_DEVICE"
	case TypeDirectory:
		return "DIRECTORY"
	case TypeBlockDevice:
		return "BLOCK_DEVICE"
	case TypeRegularFile:
		return "REGULAR_FILE"
	case TypeSymlink:
		return "SYMBOLIC_LINK"
	case TypeSocket:
		return "SOCKET"
	default:
		return "UNKNOWN"
	}
}

// typeOf extracts the Type from a raw stat mode.
func typeOf(mode uint32) Type {
	return Type(mode & typeMask)
}
