// Package main provides the CLI entrypoint for perky.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/perky/internal/config"
	"github.com/verte-zerg/perky/internal/expr"
	"github.com/verte-zerg/perky/internal/fault"
	"github.com/verte-zerg/perky/internal/geometry"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/model"
	"github.com/verte-zerg/perky/internal/ngram"
	"github.com/verte-zerg/perky/internal/permute"
	"github.com/verte-zerg/perky/internal/progress"
	"github.com/verte-zerg/perky/internal/record"
	"github.com/verte-zerg/perky/internal/report"
	"github.com/verte-zerg/perky/internal/score"
	"github.com/verte-zerg/perky/internal/store"
	"github.com/verte-zerg/perky/internal/tables"
)

const (
	defaultMetric   = "sfb"
	defaultWeight   = "raw"
	defaultTruncate = uint64(10000)
	defaultFormat   = "text"
	defaultStyle    = "auto"
)

var (
	layoutTablePath  string
	keyTablePath     string
	unigramTablePath string
	bigramTablePath  string
	trigramTablePath string

	metricName string
	goalName   string
	weightName string

	region1Chars string
	region2Chars string
	region3Chars string

	maxPermutations uint64
	sleepNS         int64
	threads         int
	truncate        uint64

	sortAsc  []string
	sortDesc []string
	filters  []string

	selectIndex int
	maxRecords  int

	formatName     string
	styleName      string
	printMetadata  bool
	printDetails   []string
	printSummaries bool
	printPerc      bool

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(fault.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "perky",
		Short:         "Keyboard layout scoring and permutation",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runScoreCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&layoutTablePath, "layout-table", "l", "", "path to layout table file")
	flags.StringVarP(&keyTablePath, "key-table", "k", "", "path to key table file")
	flags.StringVarP(&unigramTablePath, "unigram-table", "u", "", "path to unigram TSV table")
	flags.StringVarP(&bigramTablePath, "bigram-table", "b", "", "path to bigram TSV table")
	flags.StringVarP(&trigramTablePath, "trigram-table", "t", "", "path to trigram TSV table")
	flags.StringVarP(&metricName, "metric", "m", defaultMetric, "metric used for scoring")
	flags.StringVarP(&goalName, "goal", "g", "", "goal for the selected metric (min or max)")
	flags.StringVarP(&weightName, "weight", "w", defaultWeight, "weighing method (raw or effort)")
	flags.StringVarP(&region1Chars, "region1", "1", "", "characters to substitute for any 1s in the key table")
	flags.StringVarP(&region2Chars, "region2", "2", "", "characters to substitute for any 2s in the key table")
	flags.StringVarP(&region3Chars, "region3", "3", "", "characters to substitute for any 3s in the key table")
	flags.Uint64VarP(&maxPermutations, "permutations", "p", 0, "maximum number of permutations to consider (0 = all)")
	flags.Int64Var(&sleepNS, "sleep-ns", 0, "nanoseconds to yield threads per permutation batch")
	flags.IntVar(&threads, "threads", 0, "number of worker threads (0 = all logical cores)")
	flags.Uint64Var(&truncate, "truncate", defaultTruncate, "maximum number of results retained during search")
	flags.StringArrayVar(&sortAsc, "sort-asc", nil, "metrics to sort in ascending order (repeatable, comma-separated)")
	flags.StringArrayVar(&sortDesc, "sort-desc", nil, "metrics to sort in descending order (repeatable, comma-separated)")
	flags.StringArrayVarP(&filters, "filter", "f", nil, "filter expression (repeatable)")
	flags.IntVarP(&selectIndex, "index", "i", 0, "select a specific record by index; negative counts from the end")
	flags.IntVarP(&maxRecords, "max-records", "r", 0, "maximum number of records to print")
	flags.StringVar(&formatName, "format", defaultFormat, "output format (text or json)")
	flags.StringVar(&styleName, "style", defaultStyle, "when colours may be used (auto, always, never)")
	flags.BoolVar(&printMetadata, "print-metadata", false, "print metadata (default: only for permutation runs)")
	flags.StringArrayVar(&printDetails, "print-details", nil, "show detailed information for specific metrics")
	flags.BoolVar(&printSummaries, "print-summaries", true, "show summaries of metrics")
	flags.BoolVar(&printPerc, "print-perc", true, "print percentages")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "metric", &metricName, fileCfg.Scoring.Metric)
	applyStringConfig(cmd, "goal", &goalName, fileCfg.Scoring.Goal)
	applyStringConfig(cmd, "weight", &weightName, fileCfg.Scoring.Weight)
	applyUint64Config(cmd, "truncate", &truncate, fileCfg.Scoring.Truncate)
	applyIntConfig(cmd, "threads", &threads, fileCfg.Scoring.Threads)
	applyInt64Config(cmd, "sleep-ns", &sleepNS, fileCfg.Scoring.SleepNS)
	applyStringConfig(cmd, "format", &formatName, fileCfg.Output.Format)
	applyStringConfig(cmd, "style", &styleName, fileCfg.Output.Style)
	applyBoolConfig(cmd, "print-summaries", &printSummaries, fileCfg.Output.PrintSummaries)
	applyBoolConfig(cmd, "print-perc", &printPerc, fileCfg.Output.PrintPerc)

	runCfg, outCfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Inputs.

	layout, err := tables.ReadLayoutTableFromPath(resolvePath(layoutTablePath, config.DefaultLayoutTablePath()))
	if err != nil {
		return err
	}
	keyTable, err := tables.ReadKeyTableFromPath(resolvePath(keyTablePath, config.DefaultKeyTablePath()))
	if err != nil {
		return err
	}
	if err := keyTable.CheckAgainstLayout(layout); err != nil {
		return err
	}
	unigramTable, err := ngram.ReadUnigramTableFromPath(resolvePath(unigramTablePath, config.DefaultNGramTablePath(1)))
	if err != nil {
		return err
	}
	bigramTable, err := ngram.ReadBigramTableFromPath(resolvePath(bigramTablePath, config.DefaultNGramTablePath(2)))
	if err != nil {
		return err
	}
	trigramTable, err := ngram.ReadTrigramTableFromPath(resolvePath(trigramTablePath, config.DefaultNGramTablePath(3)))
	if err != nil {
		return err
	}
	set := ngram.NewSet(unigramTable, bigramTable, trigramTable)

	plan := geometry.NewPlan(layout)

	regions, err := buildRegions(keyTable, runCfg.Regions)
	if err != nil {
		return err
	}

	parsedFilters := make([]*expr.Expression, 0, len(outCfg.Filters))
	variables := metric.Names()
	for _, filter := range outCfg.Filters {
		parsed, err := expr.Parse(filter, variables)
		if err != nil {
			return err
		}
		parsedFilters = append(parsedFilters, parsed)
	}

	styled := resolveStyle(outCfg.Style)
	sink := progress.NewConsole(os.Stderr, styled)

	// Permuting.

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	result, err := permute.Run(ctx, permute.Options{
		Plan:            plan,
		Set:             set,
		Matrix:          keyTable.Matrix,
		Regions:         regions,
		Metric:          runCfg.Metric,
		Weight:          runCfg.Weight,
		Goal:            runCfg.Goal,
		Truncate:        int(runCfg.Truncate),
		MaxPermutations: runCfg.MaxPermutations,
		Threads:         runCfg.Threads,
		Sleep:           runCfg.Sleep,
		Sink:            sink,
	})
	if err != nil {
		return err
	}

	// Post-processing.

	detailSet := make(map[metric.Metric]bool, len(outCfg.Details))
	for _, m := range outCfg.Details {
		detailSet[m] = true
	}
	records := make([]*score.Record, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		records = append(records, score.BuildRecord(plan, set, candidate.Matrix, detailSet))
	}
	totalRecords := len(records)
	records = record.Dedup(records)
	uniqueRecords := len(records)
	record.Sort(records, outCfg.SortRules, runCfg.Weight, runCfg.Metric, runCfg.Goal)
	records, err = record.Filter(records, parsedFilters, runCfg.Weight)
	if err != nil {
		return err
	}
	records, err = record.Select(records, outCfg.MaxRecords, outCfg.Index)
	if err != nil {
		return err
	}
	for _, r := range records {
		r.Normalize(runCfg.Weight)
	}

	meta := result.Meta
	meta.TotalRecords = totalRecords
	meta.TotalUniqueRecords = uniqueRecords
	meta.TotalSelectedRecords = len(records)
	sink.OnComplete(meta)

	// Printing.

	reportOpts := report.Options{
		Styled:         styled,
		PrintPerc:      outCfg.PrintPerc,
		PrintSummaries: outCfg.PrintSummaries,
		Details:        outCfg.Details,
		Weight:         runCfg.Weight,
	}
	showMetadata := result.Total > 1
	if outCfg.PrintMetadata != nil {
		showMetadata = *outCfg.PrintMetadata
	}
	stdout := cmd.OutOrStdout()
	switch outCfg.Format {
	case "json":
		if showMetadata {
			if err := report.WriteMetadataJSON(stdout, meta); err != nil {
				return err
			}
		}
		if err := report.WriteRecordsJSON(stdout, records, reportOpts); err != nil {
			return err
		}
	default:
		if showMetadata {
			if err := report.WriteMetadataText(stdout, meta, reportOpts); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(stdout); err != nil {
				return err
			}
		}
		if err := report.WriteRecordsText(stdout, records, reportOpts); err != nil {
			return err
		}
	}

	if result.Total > 1 {
		recordRunHistory(startedAt, meta)
	}

	if result.Partial {
		return fault.New(fault.KindCancelled, "cancelled; partial results printed")
	}
	return nil
}

// recordRunHistory stores run metadata, best-effort.
func recordRunHistory(startedAt time.Time, meta progress.Metadata) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open run history: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close run history: %v\n", cerr)
		}
	}()
	if _, err := st.InsertRun(context.Background(), startedAt, meta); err != nil {
		logErrf("failed to record run history: %v\n", err)
	}
}

func resolveConfig(cmd *cobra.Command) (model.RunConfig, model.OutputConfig, error) {
	var runCfg model.RunConfig
	var outCfg model.OutputConfig

	selected, err := metric.Parse(metricName)
	if err != nil {
		return runCfg, outCfg, err
	}
	runCfg.Metric = selected

	runCfg.Goal = selected.Goal()
	if goalName != "" {
		goal, err := metric.ParseGoal(goalName)
		if err != nil {
			return runCfg, outCfg, err
		}
		runCfg.Goal = goal
	}

	weight, err := metric.ParseWeight(weightName)
	if err != nil {
		return runCfg, outCfg, err
	}
	runCfg.Weight = weight

	if threads < 0 {
		return runCfg, outCfg, fault.New(fault.KindArgument, "negative thread count: %d", threads)
	}
	if sleepNS < 0 {
		return runCfg, outCfg, fault.New(fault.KindArgument, "negative sleep duration: %d", sleepNS)
	}
	runCfg.Threads = threads
	runCfg.Sleep = time.Duration(sleepNS)
	runCfg.Truncate = truncate
	runCfg.MaxPermutations = maxPermutations
	runCfg.Regions = [3]string{region1Chars, region2Chars, region3Chars}

	outCfg.Format = strings.ToLower(formatName)
	if outCfg.Format != "text" && outCfg.Format != "json" {
		return runCfg, outCfg, fault.New(fault.KindArgument, "unknown format %q", formatName)
	}
	outCfg.Style = strings.ToLower(styleName)
	switch outCfg.Style {
	case "auto", "always", "never":
	default:
		return runCfg, outCfg, fault.New(fault.KindArgument, "unknown style %q", styleName)
	}
	outCfg.PrintSummaries = printSummaries
	outCfg.PrintPerc = printPerc
	if cmd.Flags().Changed("print-metadata") {
		value := printMetadata
		outCfg.PrintMetadata = &value
	}
	if cmd.Flags().Changed("max-records") {
		value := maxRecords
		outCfg.MaxRecords = &value
	}
	if cmd.Flags().Changed("index") {
		value := selectIndex
		outCfg.Index = &value
	}
	outCfg.Filters = filters

	for _, name := range splitMetricNames(printDetails) {
		m, err := metric.Parse(name)
		if err != nil {
			return runCfg, outCfg, err
		}
		outCfg.Details = append(outCfg.Details, m)
	}

	rules, err := parseSortRules(os.Args[1:])
	if err != nil {
		return runCfg, outCfg, err
	}
	outCfg.SortRules = rules

	return runCfg, outCfg, nil
}

// parseSortRules walks the raw argument list so interleaved --sort-asc
// and --sort-desc flags keep their relative order.
func parseSortRules(args []string) ([]metric.SortRule, error) {
	var rules []metric.SortRule
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var direction metric.SortDirection
		var value string
		switch {
		case arg == "--sort-asc" || arg == "--sort-desc":
			if arg == "--sort-desc" {
				direction = metric.Descending
			}
			if i+1 >= len(args) {
				return nil, fault.New(fault.KindArgument, "missing value for %s", arg)
			}
			i++
			value = args[i]
		case strings.HasPrefix(arg, "--sort-asc="):
			value = strings.TrimPrefix(arg, "--sort-asc=")
		case strings.HasPrefix(arg, "--sort-desc="):
			direction = metric.Descending
			value = strings.TrimPrefix(arg, "--sort-desc=")
		default:
			continue
		}
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			m, err := metric.Parse(name)
			if err != nil {
				return nil, err
			}
			rules = append(rules, metric.SortRule{Metric: m, Direction: direction})
		}
	}
	return rules, nil
}

func splitMetricNames(values []string) []string {
	var names []string
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// buildRegions unescapes the region character strings and pairs them
// with the key table's placeholder coordinates.
func buildRegions(keyTable *tables.KeyTable, chars [3]string) ([3]permute.Region, error) {
	var regions [3]permute.Region
	coords := keyTable.Regions()
	for i, s := range chars {
		regions[i].Coords = coords[i]
		if s == "" {
			continue
		}
		unescaped, err := ngram.Unescape(s)
		if err != nil {
			return regions, fault.Wrap(fault.KindStructural,
				fmt.Errorf("invalid region %d characters: %w", i+1, err))
		}
		for j := 0; j < len(unescaped); j++ {
			b := unescaped[j]
			if b > 0x7f || (b >= 0x01 && b <= 0x03) {
				return regions, fault.New(fault.KindStructural,
					"invalid region %d characters: must be ASCII, and the control characters SOH, STX, and ETX are reserved", i+1)
			}
		}
		regions[i].Chars = []byte(unescaped)
	}
	return regions, nil
}

func resolvePath(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return fallback
}

func resolveStyle(style string) bool {
	switch style {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded permutation runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close run history: %v\n", cerr)
		}
	}()
	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return report.WriteRunsText(cmd.OutOrStdout(), runs)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# perky configuration
# Uncomment a value to enable it. CLI flags override config values.

[scoring]
# metric = %q          # Metric used for scoring
# goal = "min"           # Goal for the selected metric
# weight = %q          # Weighing method (raw or effort)
# truncate = %d       # Maximum number of results retained during search
# threads = 0            # Number of worker threads (0 = all logical cores)
# sleep-ns = 0           # Nanoseconds to yield threads per batch

[output]
# format = %q         # Output format (text or json)
# style = %q          # When colours may be used (auto, always, never)
# print-summaries = true # Show summaries of metrics
# print-perc = true      # Print percentages
`,
		defaultMetric,
		defaultWeight,
		defaultTruncate,
		defaultFormat,
		defaultStyle,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyUint64Config(cmd *cobra.Command, name string, target, value *uint64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
