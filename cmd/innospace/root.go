package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wilhasse/innospace"
	"github.com/wilhasse/innospace/schema"
)

var (
	rootCmd = &cobra.Command{
		Use:               "innospace",
		Short:             "InnoDB tablespace explorer",
		Long:              "innospace inspects InnoDB tablespace and redo log files without opening a database.",
		SilenceUsage:      true,
		PersistentPreRunE: rootPreRun,
	}

	filePath  string
	pageSize  int
	logLevel  = "warn"
	logStderr = true

	sqlFile  string
	tomlFile string
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := rootCmd.PersistentFlags()
	fs.StringVar(&filePath, "file", "", "`path` to the tablespace or log file (required)")
	fs.IntVar(&pageSize, "page-size", 0, "page size in bytes (default: autodetect)")
	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	addDescriberFlags := func(fs *pflag.FlagSet) {
		fs.StringVar(&sqlFile, "sql", "", "`file` with a CREATE TABLE statement describing the index")
		fs.StringVar(&tomlFile, "describer", "", "TOML table definition `file` describing the index")
	}
	addDescriberFlags(indexRecurseCmd.Flags())
	addDescriberFlags(indexLevelCmd.Flags())
	addDescriberFlags(indexDotCmd.Flags())
	addDescriberFlags(indexRecordsCmd.Flags())
	addDescriberFlags(pageDumpCmd.Flags())
}

func Execute() error {
	return rootCmd.Execute()
}

func rootPreRun(cmd *cobra.Command, args []string) error {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("innospace: %s", err)
	}
	log.SetLevel(ll)
	if !logStderr {
		log.SetOutput(io.Discard)
	}
	return nil
}

// openSpace opens the --file tablespace with the common options.
func openSpace() (*innospace.Space, error) {
	if filePath == "" {
		return nil, fmt.Errorf("innospace: --file is required")
	}
	var opts []innospace.Option
	if pageSize != 0 {
		opts = append(opts, innospace.WithPageSize(pageSize))
	}
	return innospace.OpenSpace(filePath, opts...)
}

// describer loads the table definition named by --sql or --describer,
// nil when neither is given.
func describer() (schema.Describer, error) {
	switch {
	case sqlFile != "" && tomlFile != "":
		return nil, fmt.Errorf("innospace: --sql and --describer are mutually exclusive")
	case sqlFile != "":
		return schema.ParseTableDefFromSQLFile(sqlFile)
	case tomlFile != "":
		return schema.LoadTableDefTOML(tomlFile)
	}
	return nil, nil
}
