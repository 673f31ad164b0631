package config

const (
	defaultAudioDir            = "podcasts/the_bull"
	defaultOutputFile          = "podcasts/the_bull_total.md"
	defaultStateDir            = "~/.local/share/podscribe"
	defaultModelsDir           = "~/.local/share/podscribe/whisper_models"
	defaultEngine              = EngineWhisperCpp
	defaultModel               = "base"
	defaultWorkers             = 1
	defaultDevice              = "auto"
	defaultAudioExtension      = ".mp3"
	defaultWhisperCppBinary    = "whisper-cli"
	defaultWhisperXVADMethod   = "silero"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultModelBaseURL        = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"
	defaultHeadLimit           = 2000
	defaultTailFloor           = 15500
	defaultHeadSkip            = 2
	defaultTitlePrefixLen      = 11
	defaultTranscriptExtension = ".txt"
	defaultFeedLimit           = 0
	defaultFeedTimeoutSeconds  = 300
	defaultFeedUserAgent       = "podscribe/dev"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30

	// MaxWorkers bounds the transcription pool; the engine is the bottleneck
	// and more than two concurrent jobs does not help on typical hardware.
	MaxWorkers = 2
)

// Engine identifiers accepted by transcription.engine.
const (
	EngineWhisperCpp = "whispercpp"
	EngineWhisperX   = "whisperx"
)

// Device preferences accepted by transcription.device.
const (
	DeviceAuto  = "auto"
	DeviceCPU   = "cpu"
	DeviceCUDA  = "cuda"
	DeviceMetal = "metal"
)

// WhisperCppModels returns the ggml model names published for whisper.cpp.
func WhisperCppModels() []string {
	return append([]string(nil), whisperCppModels...)
}

// whisperCppModels lists the ggml model names published for whisper.cpp.
var whisperCppModels = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large-v1", "large-v2", "large-v3", "large-v3-turbo",
}

// defaultHeads are opening phrases of "The Bull - Il tuo podcast di finanza
// personale", including common mis-transcriptions. Order is priority.
var defaultHeads = []string{
	"Il tuo podcast! Diffinanza personale",
	"Il tuo podcast! Di finanza personale!",
	"Il tuo podcast. Diffinanza personale",
	"Il tuo podcast Diffinanza personale",
	"Il tuo podcast di finanza personale!",
	"Il tuo podcast, di finanza personale",
	"Il tuo podcast di finanza personale",
	"Il tuo podcast, definanza personale",
	"Il tuo podcast, finanza personale",
	"Il tuo podcast, differenza personale",
	"Il tuo podcast. Di finanza personale",
	"Il tuo podcast. Definanza personale",
	"Il tuo podcast. Definitimola personalmente",
	"In tuo potcas, di finanza personale",
	"in tuo podcast di finanza personale",
	"Domanda da un miliardo di dollari oggi a The Bull",
}

// defaultTails are closing call-to-action phrases. Order is priority.
var defaultTails = []string{
	"vi invito a mettere segui",
	"vi invito come sempre mettere",
	"vi invito come sempre a mettere",
	"a mettere segui attivare",
	"ricordo di mettere segui",
	"ricordo di cliccare su segui",
	"se metteste segui attivaste",
	"a mettere segui e attivare le notifiche",
	"metta segui e attivi",
	"mettere segui a attivare",
	"mettere segui attivare",
	"mettete seguite campanella",
	"mettete segui su Spotify",
	"mettete segui al podcast",
	"mettere segui al podcast",
	"mettete segui attivate le notifiche su",
	"Vi invito inoltre come sempre a mettere segui",
	"prima di chiudere avrete ancora una volta",
	"attivare le notifiche su Spotify",
	"attivi le notifiche su qualunque piattaforma",
	"cliccando su segui e attivando le notifiche",
	"cliccare su segui",
	"cliccare su Segui su Spotify o Apple Podcast",
	"Mi raccomando non smettete di seguirci",
	"un rating a 5 stelle",
	"lasciate una recensione a 5 stelle",
	"lasciare una recensione a 5 stelle",
	"metterebbe una recensione a 5 stelle",
	"mettete segui i 5 stelle",
	"Per il resto, spero che tutto questo vi sia piaciuto",
	"iscrivervi, mettere like ai video e attivare le notifiche",
	"Per questi episodi, invece, è davvero tutto",
	"Per questo episodio invece è davvero tutto",
	"Per il momento invece questo episodio finisce qui",
	"questo episodio per il momento finisce qui",
	"per questo episodio invece è davvero tutto",
	"Nel frattempo vi invito come sempre a mettere segui",
}

// DefaultHeads returns a copy of the built-in head phrase list.
func DefaultHeads() []string {
	return append([]string(nil), defaultHeads...)
}

// DefaultTails returns a copy of the built-in tail phrase list.
func DefaultTails() []string {
	return append([]string(nil), defaultTails...)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:   defaultAudioDir,
			OutputFile: defaultOutputFile,
			StateDir:   defaultStateDir,
		},
		Transcription: Transcription{
			Engine:            defaultEngine,
			Model:             defaultModel,
			Workers:           defaultWorkers,
			Device:            defaultDevice,
			AudioExtension:    defaultAudioExtension,
			ModelsDir:         defaultModelsDir,
			WhisperCppBinary:  defaultWhisperCppBinary,
			WhisperXVADMethod: defaultWhisperXVADMethod,
			FFmpegBinary:      defaultFFmpegBinary,
			FFprobeBinary:     defaultFFprobeBinary,
			AutoDownloadModel: true,
			ModelBaseURL:      defaultModelBaseURL,
		},
		Cleanup: Cleanup{
			Heads:               DefaultHeads(),
			Tails:               DefaultTails(),
			HeadLimit:           defaultHeadLimit,
			TailFloor:           defaultTailFloor,
			HeadSkip:            defaultHeadSkip,
			TitlePrefixLen:      defaultTitlePrefixLen,
			TranscriptExtension: defaultTranscriptExtension,
		},
		Feed: Feed{
			Limit:          defaultFeedLimit,
			TimeoutSeconds: defaultFeedTimeoutSeconds,
			UserAgent:      defaultFeedUserAgent,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
