package sensor

import (
	"os"
)

const sysfsPowerSupply = "/sys/class/power_supply"

func checkFacility() error {
	_, err := os.ReadDir(sysfsPowerSupply)
	return err
}
