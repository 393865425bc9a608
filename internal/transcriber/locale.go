package transcriber

import "runtime"

// DefaultLocale is used for source languages missing from the locale table.
const DefaultLocale = "en-US"

// localeMap maps a bare settings language code to the locale-qualified code
// speech recognition expects. The table is fixed, not user-configurable.
var localeMap = map[string]string{
	"en":    "en-US",
	"es":    "es-ES",
	"fr":    "fr-FR",
	"de":    "de-DE",
	"it":    "it-IT",
	"pt":    "pt-BR",
	"nl":    "nl-NL",
	"pl":    "pl-PL",
	"uk":    "uk-UA",
	"ru":    "ru-RU",
	"tr":    "tr-TR",
	"ar":    "ar-SA",
	"hi":    "hi-IN",
	"zh-CN": "cmn-Hans-CN",
	"ja":    "ja-JP",
	"ko":    "ko-KR",
	"vi":    "vi-VN",
	"id":    "id-ID",
	"th":    "th-TH",
	"sv":    "sv-SE",
	"cs":    "cs-CZ",
	"el":    "el-GR",
	"he":    "iw-IL",
}

// LocaleFor resolves a settings language code to its recognition locale,
// falling back to DefaultLocale for unmapped codes.
func LocaleFor(language string) string {
	if locale, ok := localeMap[language]; ok {
		return locale
	}
	return DefaultLocale
}

// EncodingParams are the fixed audio encoding parameters for one capture
// platform.
type EncodingParams struct {
	Encoding        string
	SampleRateHertz int
}

// encodingMap keys capture platform (GOOS) to the codec the platform's
// recorder produces. Not user-configurable.
var encodingMap = map[string]EncodingParams{
	"darwin":  {Encoding: "FLAC", SampleRateHertz: 44100},
	"linux":   {Encoding: "FLAC", SampleRateHertz: 44100},
	"windows": {Encoding: "LINEAR16", SampleRateHertz: 16000},
	"android": {Encoding: "AMR_WB", SampleRateHertz: 16000},
	"ios":     {Encoding: "FLAC", SampleRateHertz: 44100},
}

// defaultEncoding covers platforms missing from the table.
var defaultEncoding = EncodingParams{Encoding: "FLAC", SampleRateHertz: 44100}

// EncodingFor returns the fixed encoding parameters for a capture platform.
// Pass "" to use the current platform.
func EncodingFor(platform string) EncodingParams {
	if platform == "" {
		platform = runtime.GOOS
	}
	if p, ok := encodingMap[platform]; ok {
		return p
	}
	return defaultEncoding
}
