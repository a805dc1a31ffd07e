package main

import (
	"fmt"
	"regexp"

	"github.com/SscSPs/cash_register_app/internal/utils"
	"github.com/spf13/cobra"
)

var pinPattern = regexp.MustCompile(`^\d{6}$`)

var hashPINCmd = &cobra.Command{
	Use:   "hash-pin <pin>",
	Short: "Print the bcrypt hash of a 6-digit PIN for PIN_HASH",
	Example: `  cassactl hash-pin 123456
  PIN_HASH=$(cassactl hash-pin 123456) ./cassa_backend`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pinPattern.MatchString(args[0]) {
			return fmt.Errorf("the PIN must be exactly 6 digits")
		}
		hash, err := utils.HashPIN(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPINCmd)
}
