package services

import (
	"cmp"
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/cache"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

// Trailer sources.
const (
	TrailerSourceTMDB          = "tmdb"
	TrailerSourceFallback      = "fallback"
	TrailerSourceFallbackGenre = "fallback-genre"
)

// Trailer is a playable YouTube trailer.
type Trailer struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Source    string `json:"source"`
	VideoID   string `json:"video_id"`
}

func newTrailer(videoID, title, source string) Trailer {
	return Trailer{
		URL:       "https://www.youtube.com/watch?v=" + videoID,
		Title:     title,
		Thumbnail: "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg",
		Source:    source,
		VideoID:   videoID,
	}
}

// TrailerFinder looks up trailers from the movie's own videos, the TMDB videos endpoint and a keyword table.
type TrailerFinder struct {
	fetcher Fetcher
	gate    Connectivity
	cache   *cache.Cache
	logger  *log.Logger
}

// NewTrailerFinder creates a [TrailerFinder]. A nil fetcher or gate disables upstream lookups.
func NewTrailerFinder(fetcher Fetcher, gate Connectivity, c *cache.Cache, logger *log.Logger) *TrailerFinder {
	if c == nil {
		c = cache.New(nil)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TrailerFinder{
		fetcher: fetcher,
		gate:    gate,
		cache:   c,
		logger:  shared.WithLogger(logger, "component", "trailers"),
	}
}

// Find returns a trailer for m and whether one was found. Found trailers are cached.
func (f *TrailerFinder) Find(ctx context.Context, m models.Movie) (Trailer, bool) {
	key := cache.Key("trailer", m.ID.String(), m.Title)
	if t, ok := cache.GetJSON[Trailer](ctx, f.cache, key); ok {
		return t, true
	}
	startedAt := f.cache.Now()

	t, ok := f.find(ctx, m)
	if !ok {
		f.logger.Debug("no trailer found", "title", m.Title)
		return Trailer{}, false
	}
	if ctx.Err() != nil {
		return t, true
	}
	cache.SetJSON(ctx, f.cache, key, t, startedAt)
	return t, true
}

func (f *TrailerFinder) find(ctx context.Context, m models.Movie) (Trailer, bool) {
	if key, ok := pickTrailer(m.Videos); ok {
		source := TrailerSourceTMDB
		if m.Source == models.SourceFallback {
			source = TrailerSourceFallback
		}
		return newTrailer(key, m.Title+" - Official Trailer", source), true
	}

	if id, numeric := m.ID.Int(); numeric && m.Source == models.SourceLive && f.usable(ctx) {
		res := f.fetcher.Do(ctx, "/movie/"+strconv.Itoa(id)+"/videos", nil)
		if res.OK() {
			var env models.LiveResults[models.LiveVideo]
			if err := json.Unmarshal(res.Body, &env); err == nil {
				videos := make([]models.Video, 0, len(env.Results))
				for _, v := range env.Results {
					videos = append(videos, models.Video{Key: v.Key, Site: v.Site, Type: v.Type, Name: v.Name, Official: v.Official})
				}
				if key, ok := pickTrailer(videos); ok {
					return newTrailer(key, m.Title+" - Official Trailer", TrailerSourceTMDB), true
				}
			}
		}
	}

	return fallbackTrailer(m)
}

func (f *TrailerFinder) usable(ctx context.Context) bool {
	return f.fetcher != nil && f.gate != nil && f.gate.IsUsable(ctx)
}

// pickTrailer prefers an official YouTube trailer, then any YouTube trailer.
func pickTrailer(videos []models.Video) (string, bool) {
	for _, official := range []bool{true, false} {
		for _, v := range videos {
			if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" && (v.Official || !official) {
				return v.Key, true
			}
		}
	}
	return "", false
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// titleKey lowercases s and drops punctuation, so "Spider-Man" and "spiderman" compare equal.
func titleKey(s string) string {
	return strings.Join(strings.Fields(nonWord.ReplaceAllString(strings.ToLower(s), "")), " ")
}

// fallbackTrailer matches the title against the keyword table, longest key first, then falls back to genre.
func fallbackTrailer(m models.Movie) (Trailer, bool) {
	title := titleKey(m.Title)
	if title == "" {
		return Trailer{}, false
	}

	if id, ok := trailerKeywords[title]; ok {
		return newTrailer(id, m.Title+" - Official Trailer", TrailerSourceFallback), true
	}
	padded := " " + title + " "
	for _, k := range trailerKeywordOrder {
		if strings.Contains(padded, " "+k+" ") {
			return newTrailer(trailerKeywords[k], m.Title+" - Official Trailer", TrailerSourceFallback), true
		}
	}

	for _, g := range genreTrailerOrder {
		if strings.Contains(title, g) || m.HasGenre(g) {
			return newTrailer(genreTrailers[g], m.Title+" - Trailer", TrailerSourceFallbackGenre), true
		}
	}
	return Trailer{}, false
}

var trailerKeywords = func() map[string]string {
	out := make(map[string]string, len(rawTrailerKeywords))
	for k, id := range rawTrailerKeywords {
		out[titleKey(k)] = id
	}
	return out
}()

// trailerKeywordOrder lists keys longest first so "batman begins" wins over "batman".
var trailerKeywordOrder = func() []string {
	keys := make([]string, 0, len(trailerKeywords))
	for k := range trailerKeywords {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}()

var genreTrailerOrder = []string{"action", "comedy", "drama", "horror", "romance", "thriller", "adventure", "animation", "fantasy", "family"}

var genreTrailers = map[string]string{
	"action":    "eOrNdBpGMv8",
	"comedy":    "tcdUhdOlz9M",
	"drama":     "2e-eXJ6HgkQ",
	"horror":    "k10ETZ41q5o",
	"romance":   "BjJcYdEOI0k",
	"thriller":  "2-_-1nJf8Vg",
	"adventure": "V75dMMIW2B4",
	"animation": "7TavVZMewpY",
	"fantasy":   "V75dMMIW2B4",
	"family":    "wZdpNglLbt8",
}

var rawTrailerKeywords = map[string]string{
	"the dark knight":          "EXeTwQWrcwY",
	"batman":                   "mqqft2x_Aa4",
	"batman begins":            "QhPqez3CuNE",
	"the batman":               "mqqft2x_Aa4",
	"joker":                    "zAGVQLHvwOY",
	"iron man":                 "8ugaeA-nMTc",
	"avengers":                 "eOrNdBpGMv8",
	"avengers endgame":         "TcMBFSGVi1c",
	"avengers infinity war":    "6ZfuNTqbHE8",
	"spider-man":               "t06RUxPbp_c",
	"spider man":               "t06RUxPbp_c",
	"black panther":            "xjDjIWPwcPU",
	"wonder woman":             "1Q8fG0TtVAY",
	"aquaman":                  "WDkg3h8PCVU",
	"thor":                     "ue80QwXMRHg",
	"captain america":          "eH4K4L7704g",
	"doctor strange":           "HSzx-zryEgM",
	"ant-man":                  "pWdKf3MneyI",
	"black widow":              "RxAtuMu_ph4",
	"guardians of the galaxy":  "d96cjJhvlMA",
	"deadpool":                 "9CiW_DgxCnQ",
	"x-men":                    "YuOjdLCKNJ8",
	"wolverine":                "Wd6dKjVp9l0",
	"fast and furious":         "aSiDu3Ywi8E",
	"mission impossible":       "wb49-oV0F78",
	"john wick":                "C0BMx-qxsP4",
	"mad max":                  "hEJnMQG9ev8",
	"die hard":                 "QIOX44m8ktc",
	"terminator":               "c4Jo8QoOTQo",
	"the shawshank redemption": "6hB3S9bIaco",
	"pulp fiction":             "s7EdQ4FqbhY",
	"forrest gump":             "bLvqoHBptjg",
	"the godfather":            "sY1S34973zA",
	"goodfellas":               "qo5jJpHtI1Y",
	"taxi driver":              "UmyzaXU2SG0",
	"fight club":               "qtRKdVHc-cE",
	"the departed":             "SGWvwjZ0eDc",
	"inception":                "YoHD9XEInc0",
	"the matrix":               "vKQi3bBA1y8",
	"interstellar":             "zSWdZVtXT7E",
	"blade runner":             "gCcx85zbxz4",
	"alien":                    "LjLamj-b0I8",
	"star wars":                "vZ734NWnAHA",
	"back to the future":       "qvsgGtivCgs",
	"jurassic park":            "lc0UehYemOA",
	"avatar":                   "5PSNL1qE6VY",
	"dune":                     "n9xhJrPXop4",
	"tenet":                    "LdOM0x0XDMo",
	"dunkirk":                  "F-eMt3SrfFU",
	"oppenheimer":              "uYPbbksJxIg",
	"memento":                  "4CV41hoyS8A",
	"the prestige":             "o4gHCmTQDVI",
	"the exorcist":             "YDGw1MTEe5k",
	"halloween":                "xHuOtLbs0QE",
	"the shining":              "5Cb3ik6zP2I",
	"get out":                  "DzfPjrBC_wQ",
	"hereditary":               "V6wWKNij_1M",
	"the conjuring":            "k10ETZ41q5o",
	"titanic":                  "2e-eXJ6HgkQ",
	"the green mile":           "Ki4haFrqSrw",
	"saving private ryan":      "zwhP5b4tD6g",
	"gladiator":                "owK1qxDselE",
	"the hangover":             "tcdUhdOlz9M",
	"superbad":                 "4eaZ_48ZYog",
	"anchorman":                "NJQ4qEWm9lU",
	"the lion king":            "7TavVZMewpY",
	"frozen":                   "TbQm5doF_Uc",
	"toy story":                "KYz2wyBy3kc",
	"finding nemo":             "wZdpNglLbt8",
	"the incredibles":          "eZbzbC9285I",
	"coco":                     "Ga6RYejo6Hk",
	"top gun maverick":         "giXco2jaZ_4",
	"no time to die":           "BIhNsAtPbPI",
	"harry potter":             "VyHV0BRtdxo",
	"lord of the rings":        "V75dMMIW2B4",
	"hobbit":                   "SDnYMbYB-nU",
	"pirates of the caribbean": "naQr0uTrH_s",
	"indiana jones":            "eQfMbSe7F2w",
	"rocky":                    "3VdOdmRbaDc",
	"gone girl":                "2-_-1nJf8Vg",
	"seven":                    "SpaPz-nWaTc",
	"silence of the lambs":     "W6Mm8Sbe__o",
	"shutter island":           "5iaYLCiq5RM",
	"knives out":               "qGqiHJTsRkQ",
	"the notebook":             "BjJcYdEOI0k",
	"la la land":               "0pdqf4P9MB8",
	"apocalypse now":           "FTjG-Aux_yM",
	"1917":                     "YqNYrYUiMfg",
	"moneyball":                "pWgyy_rlmag",
}
