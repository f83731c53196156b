package commands

import (
	"flag"
	"fmt"
)

// VersionCmd is an initialized Version command for the main() command list
var VersionCmd = Version{}

// Version displays the application name and version.
type Version struct {
}

func (c *Version) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("version", flag.ExitOnError)
}

func (c *Version) Execute(...any) error {
	fmt.Printf("%s %s\n", APP, VERSION)

	return nil
}

func (c *Version) Name() string {
	return "version"
}

func (c *Version) Description() string {
	return "Displays the current version"
}

func (c *Version) Usage() string {
	return ""
}

func (c *Version) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s version\n", APP)
	fmt.Println()
	fmt.Println("  Displays the application version in the format v<major>.<minor>.<patch> e.g. v0.1.0")
	fmt.Println()
}
