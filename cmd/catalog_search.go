package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stroyassist.GO/config"
	"stroyassist.GO/service/catalog"
	"stroyassist.GO/service/search"
)

var (
	searchQuery   string
	searchLimit   int
	searchInStock bool
)

var catalogSearchCmd = &cobra.Command{
	Use:   "catalog:search",
	Short: "Query the cached catalog from the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitRedis()
		if config.RedisClient == nil {
			fmt.Println("Redis is not configured (set REDIS_ADDR)")
			return
		}

		log := config.GetLogger()
		store := catalog.NewStore(config.RedisClient, config.LoadCatalogConfig().TTL, log)
		engine := search.NewEngine(store, log)

		res, err := engine.Search(context.Background(), search.Params{
			Query:       searchQuery,
			InStockOnly: searchInStock,
			Limit:       searchLimit,
		})
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			return
		}

		fmt.Printf("Matches: %d (showing %d)\n\n", res.Total, len(res.Items))
		for _, it := range res.Items {
			price := "цена по запросу"
			if it.Price != nil {
				price = it.Price.StringFixed(2) + " руб"
			}
			fmt.Printf("%-14s %-60s %-16s остаток: %s\n",
				it.ItemCode, it.DisplayName(), price, it.Stock.Display())
		}
	},
}

func init() {
	catalogSearchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Text query")
	catalogSearchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Max results to print")
	catalogSearchCmd.Flags().BoolVar(&searchInStock, "in-stock", false, "Only items with positive stock")
	rootCmd.AddCommand(catalogSearchCmd)
}
