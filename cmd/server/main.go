package main // Entry point package

import "github.com/iliyamo/clothing-store/internal/cmd"

func main() {
	cmd.Execute()
}
