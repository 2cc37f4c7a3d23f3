package config

const (
	defaultConfigPath         = "~/.config/bookconv/config.toml"
	defaultBaseDir            = "~/Documents/Book Conversion"
	defaultInputSubdir        = "input"
	defaultOutputSubdir       = "output"
	defaultLogDir             = "~/.local/share/bookconv/logs"
	defaultConverterBinary    = "ebook-convert"
	defaultConvertTimeout     = 300
	defaultProbeTimeout       = 30
	defaultSourceExtension    = "epub"
	defaultTargetExtension    = "azw3"
	defaultErrorSnippetLength = 50
	defaultInstallHint        = "Please install Calibre: https://calibre-ebook.com/download"
	defaultImportPreviewLimit = 5
	defaultDisplayLogLines    = 9
	defaultDisplayBarWidth    = 50
	defaultDisplayColor       = "auto"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	envBaseDir                = "BOOKCONV_BASE_DIR"
	envConverterBinary        = "BOOKCONV_CONVERTER"
)

// Default returns a Config populated with repository defaults. Input and
// output directories are derived from the base directory during
// normalization when left empty.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
		},
		Converter: Converter{
			Binary:              defaultConverterBinary,
			TimeoutSeconds:      defaultConvertTimeout,
			ProbeTimeoutSeconds: defaultProbeTimeout,
			SourceExtension:     defaultSourceExtension,
			TargetExtension:     defaultTargetExtension,
			ErrorSnippetLength:  defaultErrorSnippetLength,
			InstallHint:         defaultInstallHint,
		},
		Import: Import{
			PreviewLimit: defaultImportPreviewLimit,
		},
		Display: Display{
			LogLines: defaultDisplayLogLines,
			BarWidth: defaultDisplayBarWidth,
			Color:    defaultDisplayColor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
