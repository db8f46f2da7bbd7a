//go:build !linux

package sensor

func checkFacility() error {
	return nil
}
