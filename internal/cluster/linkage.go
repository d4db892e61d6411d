package cluster

import "fmt"

// Linkage selects how inter-cluster distance is derived from member-pairwise
// distances.
type Linkage string

const (
	// LinkageSingle uses the minimum pairwise distance between clusters.
	LinkageSingle Linkage = "single"
	// LinkageComplete uses the maximum pairwise distance between clusters.
	LinkageComplete Linkage = "complete"
	// LinkageAverage uses the mean pairwise distance between clusters.
	LinkageAverage Linkage = "average"
)

// ParseLinkage validates a linkage name from config or CLI flags.
func ParseLinkage(s string) (Linkage, error) {
	switch Linkage(s) {
	case LinkageSingle, LinkageComplete, LinkageAverage:
		return Linkage(s), nil
	case "":
		return LinkageAverage, nil
	default:
		return "", fmt.Errorf("unknown linkage %q (want single, complete or average)", s)
	}
}

// merged returns the distance from the cluster formed by merging a and b to
// another cluster c, given the parents' distances to c. This is the
// Lance-Williams update for the three supported linkages, so the engine
// never needs the raw pairwise matrix after initialization.
func (l Linkage) merged(dAC, dBC float64, sizeA, sizeB int) float64 {
	switch l {
	case LinkageSingle:
		if dAC < dBC {
			return dAC
		}
		return dBC
	case LinkageComplete:
		if dAC > dBC {
			return dAC
		}
		return dBC
	default: // LinkageAverage
		wa, wb := float64(sizeA), float64(sizeB)
		return (wa*dAC + wb*dBC) / (wa + wb)
	}
}
