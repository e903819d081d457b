package services

import "github.com/desertthunder/movieplex/internal/models"

// defaultCatalog is the offline movie catalog served when the upstream API is unusable.
//
// Order matters: list slices, the unknown-mood page and related titles are taken by position.
var defaultCatalog = []models.LegacyRecord{
	{
		Title:      "The Shawshank Redemption",
		Year:       "1994",
		ImdbID:     "tt0111161",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_SX300.jpg",
		Plot:       "Two imprisoned outcasts bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		Director:   "Frank Darabont",
		Writer:     "Stephen King, Frank Darabont",
		Actors:     "Tim Robbins, Morgan Freeman, Bob Gunton",
		Genre:      "Drama",
		ImdbRating: "9.3",
		ImdbVotes:  "2,500,000",
		Released:   "14 Oct 1994",
		Runtime:    "142 min",
		Language:   "English",
	},
	{
		Title:      "The Godfather",
		Year:       "1972",
		ImdbID:     "tt0068646",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzAwNTU2OTM@._V1_SX300.jpg",
		Plot:       "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		Director:   "Francis Ford Coppola",
		Writer:     "Mario Puzo, Francis Ford Coppola",
		Actors:     "Marlon Brando, Al Pacino, James Caan",
		Genre:      "Crime, Drama",
		ImdbRating: "9.2",
		Released:   "24 Mar 1972",
		Runtime:    "175 min",
		Language:   "English, Italian",
	},
	{
		Title:      "The Dark Knight",
		Year:       "2008",
		ImdbID:     "tt0468569",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_SX300.jpg",
		Plot:       "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		Director:   "Christopher Nolan",
		Writer:     "Jonathan Nolan, Christopher Nolan",
		Actors:     "Christian Bale, Heath Ledger, Aaron Eckhart",
		Genre:      "Action, Crime, Drama",
		ImdbRating: "9.0",
		Released:   "18 Jul 2008",
		Runtime:    "152 min",
		Language:   "English",
	},
	{
		Title:      "Pulp Fiction",
		Year:       "1994",
		ImdbID:     "tt0110912",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
		Plot:       "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
		Director:   "Quentin Tarantino",
		Genre:      "Crime, Drama",
		ImdbRating: "8.9",
		Released:   "14 Oct 1994",
		Runtime:    "154 min",
	},
	{
		Title:      "Forrest Gump",
		Year:       "1994",
		ImdbID:     "tt0109830",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BNWIwODRlZTUtY2U3ZS00Yzg1LWJhNzYtMmZiYmEyNmU1NjMzXkEyXkFqcGdeQXVyMTQxNzMzNDI@._V1_SX300.jpg",
		Plot:       "The presidencies of Kennedy and Johnson, the Vietnam War, the Watergate scandal and other historical events unfold from the perspective of an Alabama man with an IQ of 75.",
		Director:   "Robert Zemeckis",
		Genre:      "Drama, Romance",
		ImdbRating: "8.8",
		Released:   "06 Jul 1994",
		Runtime:    "142 min",
	},
	{
		Title:      "Inception",
		Year:       "2010",
		ImdbID:     "tt1375666",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_SX300.jpg",
		Plot:       "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
		Director:   "Christopher Nolan",
		Genre:      "Action, Sci-Fi, Thriller",
		ImdbRating: "8.8",
		Released:   "16 Jul 2010",
		Runtime:    "148 min",
	},
	{
		Title:      "The Matrix",
		Year:       "1999",
		ImdbID:     "tt0133093",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_SX300.jpg",
		Plot:       "A computer programmer is led to fight an underground war against powerful computers who have constructed his entire reality with a system called the Matrix.",
		Director:   "Lana Wachowski, Lilly Wachowski",
		Genre:      "Action, Sci-Fi",
		ImdbRating: "8.7",
		Released:   "31 Mar 1999",
		Runtime:    "136 min",
	},
	{
		Title:      "Goodfellas",
		Year:       "1990",
		ImdbID:     "tt0099685",
		Type:       "movie",
		Poster:     "https://m.media-amazon.com/images/M/MV5BY2NkZjEzMDgtN2RjYy00YzM1LWI4ZmQtMjA4YTQyYzY2YmI5XkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
		Plot:       "The story of Henry Hill and his life in the mob, covering his relationship with his wife Karen Hill and his mob partners Jimmy Conway and Tommy DeVito.",
		Director:   "Martin Scorsese",
		Genre:      "Biography, Crime, Drama",
		ImdbRating: "8.7",
		Released:   "21 Sep 1990",
		Runtime:    "146 min",
	},
	{
		Title:      "The Shining",
		Year:       "1980",
		ImdbID:     "tt0081505",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A family heads to an isolated hotel for the winter where a sinister presence influences the father into violence.",
		Director:   "Stanley Kubrick",
		Writer:     "Stephen King, Stanley Kubrick, Diane Johnson",
		Actors:     "Jack Nicholson, Shelley Duvall, Danny Lloyd",
		Genre:      "Drama, Horror",
		ImdbRating: "8.4",
		Released:   "13 Jun 1980",
		Runtime:    "146 min",
	},
	{
		Title:      "Psycho",
		Year:       "1960",
		ImdbID:     "tt0054215",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A secretary on the run after embezzling from her employer checks into a remote motel run by a young man under the domination of his mother.",
		Director:   "Alfred Hitchcock",
		Genre:      "Horror, Mystery, Thriller",
		ImdbRating: "8.5",
		Released:   "08 Sep 1960",
		Runtime:    "109 min",
	},
	{
		Title:      "Alien",
		Year:       "1979",
		ImdbID:     "tt0078748",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "The crew of a commercial spacecraft encounters a deadly lifeform after investigating an unknown transmission.",
		Director:   "Ridley Scott",
		Actors:     "Sigourney Weaver, Tom Skerritt, John Hurt",
		Genre:      "Horror, Sci-Fi",
		ImdbRating: "8.5",
		Released:   "22 Jun 1979",
		Runtime:    "117 min",
	},
	{
		Title:      "Get Out",
		Year:       "2017",
		ImdbID:     "tt5052448",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A young man visits his girlfriend's family estate, where his uneasiness about their reception of him reaches a boiling point.",
		Director:   "Jordan Peele",
		Writer:     "Jordan Peele",
		Genre:      "Horror, Mystery, Thriller",
		ImdbRating: "7.8",
		Released:   "24 Feb 2017",
		Runtime:    "104 min",
	},
	{
		Title:      "Batman Begins",
		Year:       "2005",
		ImdbID:     "tt0372784",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "After witnessing his parents' death, Bruce Wayne learns the art of fighting to confront injustice and returns to Gotham to wage war on crime.",
		Director:   "Christopher Nolan",
		Writer:     "Bob Kane, David S. Goyer, Christopher Nolan",
		Actors:     "Christian Bale, Michael Caine, Ken Watanabe",
		Genre:      "Action, Crime, Drama",
		ImdbRating: "8.2",
		Released:   "15 Jun 2005",
		Runtime:    "140 min",
	},
	{
		Title:      "Spirited Away",
		Year:       "2001",
		ImdbID:     "tt0245429",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "During her family's move to the suburbs, a sullen ten-year-old girl wanders into a world ruled by gods, witches and spirits.",
		Director:   "Hayao Miyazaki",
		Genre:      "Animation, Adventure, Family",
		ImdbRating: "8.6",
		Released:   "20 Sep 2002",
		Runtime:    "125 min",
		Language:   "Japanese",
	},
	{
		Title:      "The Lord of the Rings: The Fellowship of the Ring",
		Year:       "2001",
		ImdbID:     "tt0120737",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A meek Hobbit from the Shire and eight companions set out on a journey to destroy the powerful One Ring and save Middle-earth from the Dark Lord Sauron.",
		Director:   "Peter Jackson",
		Actors:     "Elijah Wood, Ian McKellen, Orlando Bloom",
		Genre:      "Action, Adventure, Drama",
		ImdbRating: "8.9",
		Released:   "19 Dec 2001",
		Runtime:    "178 min",
	},
	{
		Title:      "The Lord of the Rings: The Return of the King",
		Year:       "2003",
		ImdbID:     "tt0167260",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "Gandalf and Aragorn lead the World of Men against Sauron's army to draw his gaze from Frodo and Sam as they approach Mount Doom with the One Ring.",
		Director:   "Peter Jackson",
		Genre:      "Action, Adventure, Drama",
		ImdbRating: "9.0",
		Released:   "17 Dec 2003",
		Runtime:    "201 min",
	},
	{
		Title:      "Fight Club",
		Year:       "1999",
		ImdbID:     "tt0137523",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "An insomniac office worker and a devil-may-care soap maker form an underground fight club that evolves into much more.",
		Director:   "David Fincher",
		Actors:     "Brad Pitt, Edward Norton, Meat Loaf",
		Genre:      "Drama",
		ImdbRating: "8.8",
		Released:   "15 Oct 1999",
		Runtime:    "139 min",
	},
	{
		Title:      "Star Wars: Episode V - The Empire Strikes Back",
		Year:       "1980",
		ImdbID:     "tt0080684",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "After the Rebels are overpowered by the Empire, Luke Skywalker begins his Jedi training with Yoda while his friends are pursued across the galaxy.",
		Director:   "Irvin Kershner",
		Genre:      "Action, Adventure, Fantasy",
		ImdbRating: "8.7",
		Released:   "20 Jun 1980",
		Runtime:    "124 min",
	},
	{
		Title:      "One Flew Over the Cuckoo's Nest",
		Year:       "1975",
		ImdbID:     "tt0073486",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "In a 1963 Oregon psychiatric hospital, a rebellious convict leads the patients in a revolt against the oppressive head nurse.",
		Director:   "Milos Forman",
		Genre:      "Drama",
		ImdbRating: "8.7",
		Released:   "19 Nov 1975",
		Runtime:    "133 min",
	},
	{
		Title:      "Toy Story",
		Year:       "1995",
		ImdbID:     "tt0114709",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A cowboy doll is profoundly threatened and jealous when a new spaceman action figure supplants him as top toy in a boy's bedroom.",
		Director:   "John Lasseter",
		Actors:     "Tom Hanks, Tim Allen, Don Rickles",
		Genre:      "Animation, Adventure, Comedy",
		ImdbRating: "8.3",
		Released:   "22 Nov 1995",
		Runtime:    "81 min",
	},
	{
		Title:      "The Notebook",
		Year:       "2004",
		ImdbID:     "tt0332280",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A poor yet passionate young man falls in love with a rich young woman, giving her a sense of freedom, but they are soon separated by their social differences.",
		Director:   "Nick Cassavetes",
		Genre:      "Drama, Romance",
		ImdbRating: "7.8",
		Released:   "25 Jun 2004",
		Runtime:    "123 min",
	},
	{
		Title:      "Superbad",
		Year:       "2007",
		ImdbID:     "tt0829482",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "Two co-dependent high school seniors are forced to deal with separation anxiety after their plan to stage a booze-soaked party goes awry.",
		Director:   "Greg Mottola",
		Genre:      "Comedy",
		ImdbRating: "7.6",
		Released:   "17 Aug 2007",
		Runtime:    "113 min",
	},
	{
		Title:      "Groundhog Day",
		Year:       "1993",
		ImdbID:     "tt0107048",
		Type:       "movie",
		Poster:     "N/A",
		Plot:       "A narcissistic, self-centered weatherman finds himself in a time loop on Groundhog Day.",
		Director:   "Harold Ramis",
		Actors:     "Bill Murray, Andie MacDowell, Chris Elliott",
		Genre:      "Comedy, Drama, Fantasy",
		ImdbRating: "8.0",
		Released:   "12 Feb 1993",
		Runtime:    "101 min",
	},
}

// defaultMoodTitles names the catalog titles served for each mood.
var defaultMoodTitles = map[string][]string{
	"happy":       {"The Shawshank Redemption", "Forrest Gump"},
	"sad":         {"The Shawshank Redemption", "Forrest Gump"},
	"excited":     {"The Dark Knight", "Inception", "The Matrix"},
	"romantic":    {"Forrest Gump", "The Notebook"},
	"adventurous": {"Inception", "The Matrix"},
	"nostalgic":   {"The Godfather", "Pulp Fiction", "Goodfellas"},
	"scared":      {"The Shining", "Psycho", "Alien", "Get Out"},
	"funny":       {"Superbad", "Groundhog Day", "Toy Story"},
	"thrilling":   {"Inception", "Psycho", "Get Out"},
	"dramatic":    {"The Shawshank Redemption", "The Godfather", "One Flew Over the Cuckoo's Nest"},
}

// trailerKeys maps catalog IMDb ids to YouTube video keys.
var trailerKeys = map[string]string{
	"tt0111161": "P9mwtI82k6E",
	"tt0068646": "sJU2csySWDk",
	"tt0468569": "EXeTwQWrcwY",
	"tt0109830": "gFVfbPFAjZ0",
	"tt0137523": "BdJKm16Co6M",
	"tt0110912": "6hB3S9bIaco",
	"tt0167260": "V75dMMIW2B4",
	"tt0120737": "V75dMMIW2B4",
	"tt0080684": "JNwNXF9Y6kY",
	"tt0073486": "FRT6FPcOHE",
}

const defaultTrailerKey = "dQw4w9WgXcQ"

// placeholderCast is used for catalog entries without an actor list.
var placeholderCast = []models.LiveCast{
	{ID: 1, Name: "John Smith", Character: "Main Character", ProfilePath: "https://via.placeholder.com/185x278/333/fff?text=Actor1", Order: 0},
	{ID: 2, Name: "Jane Doe", Character: "Love Interest", ProfilePath: "https://via.placeholder.com/185x278/444/fff?text=Actor2", Order: 1},
	{ID: 3, Name: "Michael Johnson", Character: "Villain", ProfilePath: "https://via.placeholder.com/185x278/555/fff?text=Actor3", Order: 2},
	{ID: 4, Name: "Sarah Wilson", Character: "Supporting Role", ProfilePath: "https://via.placeholder.com/185x278/666/fff?text=Actor4", Order: 3},
	{ID: 5, Name: "David Brown", Character: "Friend", ProfilePath: "https://via.placeholder.com/185x278/777/fff?text=Actor5", Order: 4},
	{ID: 6, Name: "Emily Davis", Character: "Mentor", ProfilePath: "https://via.placeholder.com/185x278/888/fff?text=Actor6", Order: 5},
	{ID: 7, Name: "Robert Garcia", Character: "Antagonist", ProfilePath: "https://via.placeholder.com/185x278/999/fff?text=Actor7", Order: 6},
	{ID: 8, Name: "Lisa Martinez", Character: "Ally", ProfilePath: "https://via.placeholder.com/185x278/aaa/fff?text=Actor8", Order: 7},
}

var fallbackReviews = []models.LiveReview{
	{
		ID:        "1",
		Author:    "CinemaLover",
		Content:   "An absolutely stunning masterpiece that showcases incredible cinematography and storytelling. The performances are top-notch and the direction is flawless.",
		CreatedAt: "2023-06-15T10:30:00.000Z",
	},
	{
		ID:        "2",
		Author:    "MovieCritic2023",
		Content:   "A well-crafted film with excellent pacing and character development. Some minor plot points could have been explored further, but overall a very enjoyable experience.",
		CreatedAt: "2023-06-10T14:22:00.000Z",
	},
}

var fallbackReviewRatings = []float64{9, 8}

var (
	providerNetflix    = models.LiveProvider{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/t2yyOv40HZeVlLjYsCsPHnWLk4W.jpg"}
	providerPrime      = models.LiveProvider{ProviderID: 119, ProviderName: "Amazon Prime Video", LogoPath: "/dQeAar5H991VYporEjUspolDarG.jpg"}
	providerDisney     = models.LiveProvider{ProviderID: 337, ProviderName: "Disney Plus", LogoPath: "/7rwgEs15tFwyR9NPQ5vpzxTj19Q.jpg"}
	providerAppleTV    = models.LiveProvider{ProviderID: 2, ProviderName: "Apple TV", LogoPath: "/peURlLlr8jggOwK53fJ5wdQl05y.jpg"}
	providerGooglePlay = models.LiveProvider{ProviderID: 3, ProviderName: "Google Play Movies", LogoPath: "/3KF2LKurRJlCFYwrKBYzRgzF4Ze.jpg"}
	providerMicrosoft  = models.LiveProvider{ProviderID: 68, ProviderName: "Microsoft Store", LogoPath: "/shq88b09gTBYC4hA4BZR0xHlHM2.jpg"}
)

func fallbackProviders() *models.LiveWatchProviders {
	return &models.LiveWatchProviders{Results: map[string]models.LiveRegionProviders{
		"US": {
			Link:     "https://www.themoviedb.org/",
			Flatrate: []models.LiveProvider{providerNetflix, providerPrime, providerDisney},
			Rent:     []models.LiveProvider{providerAppleTV, providerGooglePlay},
			Buy:      []models.LiveProvider{providerAppleTV, providerGooglePlay, providerMicrosoft},
		},
		"GB": {
			Link:     "https://www.themoviedb.org/",
			Flatrate: []models.LiveProvider{providerNetflix, providerPrime},
			Rent:     []models.LiveProvider{},
			Buy:      []models.LiveProvider{},
		},
	}}
}
