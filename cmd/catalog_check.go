package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stroyassist.GO/config"
	"stroyassist.GO/erp"
)

var checkCodes string

var catalogCheckCmd = &cobra.Command{
	Use:   "catalog:check",
	Short: "Check live price and stock for item codes straight from 1C",
	Run: func(cmd *cobra.Command, args []string) {
		codes := strings.Split(checkCodes, ",")
		for i := range codes {
			codes[i] = strings.TrimSpace(codes[i])
		}

		client := erp.NewClient(config.LoadERPConfig(), config.GetLogger())
		items, err := client.GetItems(context.Background(), codes)
		if err != nil {
			fmt.Printf("1C request failed: %v\n", err)
			return
		}

		byCode := make(map[string]erp.ShortItem, len(items))
		for _, it := range items {
			byCode[it.Code] = it
		}
		for _, code := range codes {
			it, ok := byCode[code]
			if !ok {
				fmt.Printf("%-14s not found in 1C\n", code)
				continue
			}
			price := "цена по запросу"
			if it.Price != nil {
				price = it.Price.StringFixed(2) + " руб"
			}
			fmt.Printf("%-14s %-60s %-16s остаток: %s\n",
				it.Code, it.Name, price, it.Stock.Display())
		}
	},
}

func init() {
	catalogCheckCmd.Flags().StringVar(&checkCodes, "codes", "", "Comma-separated item codes (required)")
	catalogCheckCmd.MarkFlagRequired("codes")
	rootCmd.AddCommand(catalogCheckCmd)
}
