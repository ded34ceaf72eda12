package planetary

// Lore holds the traditional correspondences of a planet, after The Greater Key of Solomon.
type Lore struct {
	Archangel   string `json:"archangel"`
	Angel       string `json:"angel"`
	Color       string `json:"color"`
	Metal       string `json:"metal"`
	Stone       string `json:"stone"`
	Influence   string `json:"influence"`
	Description string `json:"description"`
}

var loreTable = map[Planet]Lore{
	Sun: {
		Archangel:   "Michael",
		Angel:       "Dardiel",
		Color:       "Gold",
		Metal:       "Gold",
		Stone:       "Yellow Diamond",
		Influence:   "Power, success, leadership, vitality, confidence",
		Description: "The Sun represents light, life force, and divine authority. In Solomonic magic, it's associated with success and all matters of leadership and power.",
	},
	Moon: {
		Archangel:   "Gabriel",
		Angel:       "Neciel",
		Color:       "Silver",
		Metal:       "Silver",
		Stone:       "Pearl, Moonstone",
		Influence:   "Intuition, fertility, dreams, emotions, receptivity",
		Description: "The Moon governs intuition, dreams, and all things hidden or mysterious. It is tied to emotions, receptivity, and cycles of change.",
	},
	Mars: {
		Archangel:   "Samael",
		Angel:       "Madimiel",
		Color:       "Red",
		Metal:       "Iron",
		Stone:       "Ruby",
		Influence:   "Courage, strength, protection, overcoming enemies",
		Description: "Mars embodies strength, courage, and aggressive action. In Solomonic magic, Mars hours are ideal for protective work and overcoming obstacles.",
	},
	Mercury: {
		Archangel:   "Raphael",
		Angel:       "Cochabiel",
		Color:       "Orange, Purple",
		Metal:       "Mercury, Alloys",
		Stone:       "Opal",
		Influence:   "Communication, knowledge, travel, divination",
		Description: "Mercury governs communication, knowledge, and intellectual pursuits. These hours are excellent for divination, study, and uncovering hidden wisdom.",
	},
	Jupiter: {
		Archangel:   "Tzadkiel",
		Angel:       "Zedekel",
		Color:       "Blue, Purple",
		Metal:       "Tin",
		Stone:       "Amethyst, Sapphire",
		Influence:   "Prosperity, expansion, wisdom, legal matters",
		Description: "Jupiter represents growth, abundance, and wisdom. Jupiter hours are powerful for prosperity workings and expanding one's influence.",
	},
	Venus: {
		Archangel:   "Anael",
		Angel:       "Nogahiel",
		Color:       "Green",
		Metal:       "Copper",
		Stone:       "Emerald",
		Influence:   "Love, beauty, harmony, art, pleasure",
		Description: "Venus governs love, beauty, and harmony. In Solomonic tradition, Venus hours are ideal for works of art, love, and reconciliation.",
	},
	Saturn: {
		Archangel:   "Cassiel",
		Angel:       "Shabbathiel",
		Color:       "Black, Dark Purple",
		Metal:       "Lead",
		Stone:       "Onyx, Obsidian",
		Influence:   "Boundaries, discipline, banishing, binding",
		Description: "Saturn represents boundaries, time, and discipline. Saturn hours are powerful for binding, banishing, and ending situations.",
	},
}

// LoreFor returns the correspondences of p. Unknown planets yield the zero Lore.
func LoreFor(p Planet) Lore {
	return loreTable[p]
}
