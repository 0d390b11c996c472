package mailtemplate

import "github.com/masa23/crmmail/model"

// Builtin returns the stock commercial and support templates.
func Builtin() []model.EmailTemplate {
	return []model.EmailTemplate{
		{
			ID:       "premier-contact-prospect",
			Name:     "Premier contact prospect",
			Category: model.CategoryProspection,
			Subject:  "{{nom}}, découvrez les offres Free adaptées à votre foyer",
			HTMLContent: `<p>Bonjour {{nom}},</p>
<p>Suite à votre demande, je vous présente nos offres <strong>Freebox</strong> disponibles à votre adresse.</p>
<p>Votre éligibilité : <strong>{{eligibilite}}</strong>.</p>
<p>Je reste disponible pour en parler de vive voix au {{vendeur_tel}}.</p>
<p>Cordialement,<br>{{vendeur_nom}}<br><a href="mailto:{{vendeur_email}}">{{vendeur_email}}</a></p>`,
			TextContent: `Bonjour {{nom}},

Suite à votre demande, je vous présente nos offres Freebox disponibles à votre adresse.
Votre éligibilité : {{eligibilite}}.

Je reste disponible pour en parler de vive voix au {{vendeur_tel}}.

Cordialement,
{{vendeur_nom}}
{{vendeur_email}}`,
			Variables: []string{"nom", "eligibilite", "vendeur_nom", "vendeur_email", "vendeur_tel"},
			IsActive:  true,
		},
		{
			ID:       "relance-prospect-chaud",
			Name:     "Relance prospect chaud",
			Category: model.CategoryCommercial,
			Subject:  "Dernière chance - Offre Free {{produit}} expire bientôt",
			HTMLContent: `<p>Bonjour {{nom}},</p>
<p>L'offre <strong>{{produit}}</strong> que nous avons évoquée vous fait économiser <strong>{{economie}}€</strong> par an.</p>
<p>Elle expire le <strong>{{date_expiration}}</strong>. Pour en profiter, répondez à ce message ou rappelez-nous au {{telephone}}.</p>
<p>Bien à vous,<br>{{vendeur_nom}}<br>{{vendeur_email}} - {{vendeur_tel}}</p>`,
			TextContent: `Bonjour {{nom}},

L'offre {{produit}} que nous avons évoquée vous fait économiser {{economie}}€ par an.
Elle expire le {{date_expiration}}. Pour en profiter, répondez à ce message ou rappelez-nous au {{telephone}}.

Bien à vous,
{{vendeur_nom}}
{{vendeur_email}} - {{vendeur_tel}}`,
			Variables: []string{"nom", "produit", "economie", "date_expiration", "telephone", "vendeur_nom", "vendeur_email", "vendeur_tel"},
			IsActive:  true,
		},
		{
			ID:       "suivi-installation",
			Name:     "Suivi d'installation",
			Category: model.CategorySuivi,
			Subject:  "Votre installation {{produit}} du {{date_installation}}",
			HTMLContent: `<p>Bonjour {{nom}},</p>
<p>Votre installation <strong>{{produit}}</strong> est programmée le <strong>{{date_installation}}</strong> entre {{creneau}}.</p>
<p>Le technicien vous contactera la veille. Pour toute modification, contactez {{vendeur_nom}} au {{vendeur_tel}}.</p>`,
			TextContent: `Bonjour {{nom}},

Votre installation {{produit}} est programmée le {{date_installation}} entre {{creneau}}.
Le technicien vous contactera la veille. Pour toute modification, contactez {{vendeur_nom}} au {{vendeur_tel}}.`,
			Variables: []string{"nom", "produit", "date_installation", "creneau", "vendeur_nom", "vendeur_tel"},
			IsActive:  true,
		},
		{
			ID:       "confirmation-ticket-support",
			Name:     "Confirmation ticket support",
			Category: model.CategorySupport,
			Subject:  "Ticket {{numero_ticket}} : votre demande a bien été enregistrée",
			HTMLContent: `<p>Bonjour {{nom}},</p>
<p>Nous avons bien reçu votre demande concernant : <em>{{objet}}</em>.</p>
<p>Numéro de ticket : <strong>{{numero_ticket}}</strong>. Délai de réponse estimé : {{delai}}.</p>
<p>L'équipe support</p>`,
			TextContent: `Bonjour {{nom}},

Nous avons bien reçu votre demande concernant : {{objet}}.
Numéro de ticket : {{numero_ticket}}. Délai de réponse estimé : {{delai}}.

L'équipe support`,
			Variables: []string{"nom", "objet", "numero_ticket", "delai"},
			IsActive:  true,
		},
		{
			ID:       "notification-facture",
			Name:     "Notification de facture",
			Category: model.CategoryNotification,
			Subject:  "Votre facture {{numero_facture}} est disponible",
			HTMLContent: `<p>Bonjour {{nom}},</p>
<p>Votre facture <strong>{{numero_facture}}</strong> d'un montant de <strong>{{montant}}€</strong> est disponible dans votre espace abonné.</p>
<p>Elle sera prélevée le {{date_prelevement}}.</p>`,
			TextContent: `Bonjour {{nom}},

Votre facture {{numero_facture}} d'un montant de {{montant}}€ est disponible dans votre espace abonné.
Elle sera prélevée le {{date_prelevement}}.`,
			Variables: []string{"nom", "numero_facture", "montant", "date_prelevement"},
			IsActive:  true,
		},
	}
}
