// Command lead-scraper generates qualified B2B leads from Google Maps.
package main

import "github.com/adrockmkt/lead-scraper-maps/cmd"

func main() {
	cmd.Execute()
}
