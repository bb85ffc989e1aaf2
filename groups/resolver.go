package groups

// Recognized group/specialization identifiers
const (
	All   = 1 // everyone; also the shared partition
	PartA = 2
	PartB = 3
)

// Resolve maps a requested group (or specialization) to the partition identifiers
// whose lesson rows are visible for it. Unknown values pass through unexpanded.
// The result is a fresh slice on every call.
func Resolve(id int) []int {
	switch id {
	case All:
		return []int{All, PartA, PartB}
	case PartA:
		return []int{All, PartA}
	case PartB:
		return []int{All, PartB}
	default:
		return []int{id}
	}
}
