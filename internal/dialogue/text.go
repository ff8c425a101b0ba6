package dialogue

import "strings"

// defaultMenuMediaURL is the product photo attached to the main menu.
const defaultMenuMediaURL = "https://lusterchocolate.com/wp-content/uploads/2022/09/pr-3-3-scaled-1.jpeg"

// textSet holds every outbound message in one language. Format verbs are
// filled in by the engine.
type textSet struct {
	MainMenu          string
	Invalid           string
	Contact           string
	OrderingMode      string
	OrderListHeader   string
	OrderListFooter   string
	Hours             string
	Address           string
	AskAddress        string
	AddedFmt          string
	AskMore           string
	NotUnderstood     string
	EmptyCartView     string
	EmptyCartRedirect string
	CartOptions       string
	Cleared           string
	RemovedFmt        string
	RemoveUsage       string
	InvalidIndex      string
	TotalFmt          string
	PaymentMenu       string
	OrangeFmt         string
	WaveFmt           string
	InvalidPayment    string
	ShortToken        string
	PaymentReceived   string
	ThankYouFmt       string
	NextSteps         string
}

var texts = map[string]textSet{
	"en": {
		MainMenu: "Hi, thanks for contacting *Luster Chocolate*.\n" +
			"You can choose from one of the options below:\n\n" +
			"*Type*\n" +
			"1. To *contact* us\n" +
			"2. To *order* our products\n" +
			"3. To know our *working hours*\n" +
			"4. To get our *address*\n" +
			"5. To view your *cart*",
		Invalid: "Please enter a valid option (1-5).",
		Contact: "You can contact us via:\n" +
			"📞 +225 07 88 04 67 36 / +225 01 40 45 44 40\n" +
			"✉️ info@lusterchocolate.com",
		OrderingMode:    "You have entered *ordering mode*.",
		OrderListHeader: "Please choose products to order:",
		OrderListFooter: "Send items like *2 cocoa butter, 1 nibs* or a product number.\n" +
			"Type *done* to checkout, *cart* to review, *back* for the main menu.",
		Hours:      "Our working hours are *9 a.m. to 5 p.m.*, Monday-Friday.",
		Address:    "We're at *04 BP 1041 Abidjan 04, Abidjan, Côte d'Ivoire*",
		AskAddress: "Please reply with your delivery address to confirm.",
		AddedFmt:   "✅ Added: %s",
		AskMore: "Would you like anything else?\n" +
			"1. Yes, keep ordering\n" +
			"2. No, checkout",
		NotUnderstood: "Sorry, I couldn't find those products. Send a product number or name from the list.",
		EmptyCartView: "Your cart is empty.\n" +
			"1. Browse our products\n" +
			"2. Back to main menu",
		EmptyCartRedirect: "Your cart is still empty — add some products first.",
		CartOptions: "1. Keep ordering\n" +
			"2. Checkout\n" +
			"Or: *remove N*, *clear*, *back*",
		Cleared:        "🧹 Cart cleared.",
		RemovedFmt:     "Removed %s from your cart.",
		RemoveUsage:    "To remove an item, type *remove* followed by its number, e.g. *remove 2*.",
		InvalidIndex:   "There's no cart item with that number.",
		TotalFmt:       "Your order total is *$%.2f*.",
		PaymentMenu: "How would you like to pay?\n" +
			"1. Orange Money\n" +
			"2. Wave\n" +
			"3. Cash on delivery",
		OrangeFmt: "Dial *#144#* and send *$%.2f* to complete your Orange Money payment.\n" +
			"Reference: *%s*\nThen reply here with your transaction ID.",
		WaveFmt: "Open Wave and send *$%.2f*.\n" +
			"Reference: *%s*\nThen reply here with your transaction ID.",
		InvalidPayment:  "Please choose a payment option (1-3).",
		ShortToken:      "That transaction ID looks too short — it should be at least 6 characters. Please check and resend it.",
		PaymentReceived: "✅ Payment received, thank you!",
		ThankYouFmt: "Thank you! 😊 Your order *%s* is confirmed and will arrive within the next hour.",
		NextSteps: "What would you like next?\n" +
			"1. Another order\n" +
			"2. Contact us\n" +
			"3. About us\n" +
			"4. Main menu",
	},
	"fr": {
		MainMenu: "Bonjour, merci de contacter *Luster Chocolate*.\n" +
			"Vous pouvez choisir une des options ci-dessous :\n\n" +
			"*Tapez*\n" +
			"1. Pour *nous contacter*\n" +
			"2. Pour *commander* nos produits\n" +
			"3. Pour nos *horaires*\n" +
			"4. Pour notre *adresse*\n" +
			"5. Pour voir votre *panier*",
		Invalid: "Veuillez entrer une option valide (1-5).",
		Contact: "Vous pouvez nous contacter via :\n" +
			"📞 +225 07 88 04 67 36 / +225 01 40 45 44 40\n" +
			"✉️ info@lusterchocolate.com",
		OrderingMode:    "Vous êtes en *mode commande*.",
		OrderListHeader: "Veuillez choisir des produits :",
		OrderListFooter: "Envoyez par exemple *2 beurre de cacao, 1 nibs* ou un numéro de produit.\n" +
			"Tapez *done* pour payer, *cart* pour votre panier, *back* pour le menu.",
		Hours:      "Nos horaires : *9 h à 17 h*, du lundi au vendredi.",
		Address:    "Nous sommes au *04 BP 1041 Abidjan 04, Abidjan, Côte d'Ivoire*",
		AskAddress: "Merci ! Veuillez envoyer votre adresse de livraison.",
		AddedFmt:   "✅ Ajouté : %s",
		AskMore: "Souhaitez-vous autre chose ?\n" +
			"1. Oui, continuer\n" +
			"2. Non, payer",
		NotUnderstood: "Désolé, je n'ai pas trouvé ces produits. Envoyez un numéro ou un nom de la liste.",
		EmptyCartView: "Votre panier est vide.\n" +
			"1. Voir nos produits\n" +
			"2. Menu principal",
		EmptyCartRedirect: "Votre panier est encore vide — ajoutez d'abord des produits.",
		CartOptions: "1. Continuer la commande\n" +
			"2. Payer\n" +
			"Ou : *remove N*, *clear*, *back*",
		Cleared:        "🧹 Panier vidé.",
		RemovedFmt:     "%s retiré de votre panier.",
		RemoveUsage:    "Pour retirer un article, tapez *remove* suivi de son numéro, ex. *remove 2*.",
		InvalidIndex:   "Aucun article du panier ne porte ce numéro.",
		TotalFmt:       "Le total de votre commande est *$%.2f*.",
		PaymentMenu: "Comment souhaitez-vous payer ?\n" +
			"1. Orange Money\n" +
			"2. Wave\n" +
			"3. Paiement à la livraison",
		OrangeFmt: "Composez *#144#* et envoyez *$%.2f* pour votre paiement Orange Money.\n" +
			"Référence : *%s*\nPuis répondez ici avec votre numéro de transaction.",
		WaveFmt: "Ouvrez Wave et envoyez *$%.2f*.\n" +
			"Référence : *%s*\nPuis répondez ici avec votre numéro de transaction.",
		InvalidPayment:  "Veuillez choisir un mode de paiement (1-3).",
		ShortToken:      "Ce numéro de transaction semble trop court — au moins 6 caractères. Vérifiez et renvoyez-le.",
		PaymentReceived: "✅ Paiement reçu, merci !",
		ThankYouFmt: "Merci ! 😊 Votre commande *%s* est confirmée et arrive d'ici une heure.",
		NextSteps: "Que souhaitez-vous faire ?\n" +
			"1. Nouvelle commande\n" +
			"2. Nous contacter\n" +
			"3. À propos\n" +
			"4. Menu principal",
	},
}

func textFor(lang string) textSet {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts["en"]
}

var frenchMarkers = map[string]struct{}{
	"bonjour": {}, "salut": {}, "merci": {}, "oui": {}, "non": {},
	"je": {}, "vous": {}, "nous": {}, "votre": {}, "mon": {},
	"commander": {}, "commande": {}, "acheter": {}, "payer": {},
	"livraison": {}, "adresse": {}, "panier": {}, "horaires": {},
	"beurre": {}, "cacao": {}, "gingembre": {}, "poudre": {},
}

// DetectLang returns "fr" when the text carries French markers (diacritics
// or common French words), otherwise "en". A crude stand-in for real
// language detection, matching what the boutique actually needs.
func DetectLang(text string) string {
	lower := strings.ToLower(text)
	if strings.ContainsAny(lower, "éèêàâçùôîû") {
		return "fr"
	}
	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, ".,!?;:")
		if _, ok := frenchMarkers[tok]; ok {
			return "fr"
		}
	}
	return "en"
}
