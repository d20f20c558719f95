// treegramctl loads a binary n-gram model file and either dumps its
// structure or answers conditional log-probability queries against it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shubhamnegi/treegramlm/ngram"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "treegramctl",
	Short: "Inspect and query tree-structured n-gram language model files",
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [model-file]",
	Short: "Print the vocabulary, order counts, and unigram layer of a model file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var cacheSize int64

var queryCmd = &cobra.Command{
	Use:   "query [model-file] [word1,word2,...]",
	Short: "Print the conditional log10-probability of a comma-separated word gram",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int64Var(&cacheSize, "cache", 0, "enable a query result cache sized to hold this many entries (0 disables it)")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(queryCmd)
}

func loadStore(path string) (*ngram.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s := ngram.NewStore()
	if err := s.Read(f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := loadStore(args[0])
	if err != nil {
		return err
	}
	logger.Info("loaded model", "path", args[0], "words", s.NumWords(), "nodes", s.NumNodes(), "order", s.Order())
	return s.Inspect(os.Stdout)
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := loadStore(args[0])
	if err != nil {
		return err
	}
	if cacheSize > 0 {
		if err := s.EnableQueryCache(cacheSize); err != nil {
			return fmt.Errorf("enable query cache: %w", err)
		}
	}

	ids := make(map[string]int32, s.NumWords())
	for i := int32(0); int(i) < s.NumWords(); i++ {
		w, err := s.Word(i)
		if err != nil {
			return err
		}
		ids[w] = i
	}

	words := strings.Split(args[1], ",")
	gram := make([]int32, len(words))
	for i, w := range words {
		id, ok := ids[w]
		if !ok {
			return fmt.Errorf("word %q not found in vocabulary", w)
		}
		gram[i] = id
	}

	ctx := &ngram.QueryContext{}
	logProb, err := s.LogProb(ctx, gram)
	if err != nil {
		return fmt.Errorf("query %q: %w", args[1], err)
	}

	fmt.Printf("log10 P(%s) = %s (order=%d, history=%d)\n",
		args[1], strconv.FormatFloat(float64(logProb), 'f', 6, 32),
		ctx.LastOrder(), ctx.LastHistoryLength())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
