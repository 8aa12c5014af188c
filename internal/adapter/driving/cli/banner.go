package cli

import (
	"fmt"

	"github.com/billqhan/rfp-deploy/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
        ______ ______ ______    ____             __
       / __  // ____// __  /   / __ \___  ____  / /___  __  __
      / /_/ // /___ / /_/ /   / / / / _ \/ __ \/ / __ \/ / / /
     / _, _// ____// ____/   / /_/ /  __/ /_/ / / /_/ / /_/ /
    /_/ |_|/_/    /_/       /____/ \___/ .___/_/\____/\__, /
                                      /_/            /____/
    `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("RFP Deploy CLI (v%s)", version.FormatVersion())))
}
