package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/resumehub/internal/adminctl"
)

func main() {

	ctx := context.Background()

	if err := adminctl.Run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
