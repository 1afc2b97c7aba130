package report

import "rfm-segments/pkg/models"

// Descriptions : texte d'aide affiché pour chaque segment. Donnée statique,
// hors moteur ; seul le nom du segment fait le lien.
var Descriptions = map[models.Segment]string{
	models.SegmentLostCheap: "They don't have a good shopping history and haven't bought from us for a long time",
	models.SegmentLostValuable: "They have a good shopping history and haven't bought from us for a long time. " +
		"We suggest sending them back to your stores by text or call",
	models.SegmentNeedAttention: "They have a normal shopping history. You can bring them back to your stores " +
		"sooner by sending long-term credits.",
	models.SegmentNew: "They bought recently from your brand and have no good shopping history yet. " +
		"You have to turn them into regular customers by offering solutions.",
	models.SegmentPotential: "They buy from you continuously and have a good buying history; " +
		"they are your regular customers",
	models.SegmentBest:   "They are your stars, they have the best shopping and more frequently shopping",
	models.SegmentOthers: "They haven't bought from us for an almost long time and have no good shopping history.",
}

// Describe renvoie "<segment> : <description>".
func Describe(s models.Segment) string {
	return string(s) + " : " + Descriptions[s]
}
