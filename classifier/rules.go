package classifier

const (
	RuleHostingerBusinessEmail = "hostinger-business-email"
	RuleHostingerGetStarted    = "hostinger-get-started"
)

func builtinRules() []Rule {
	return []Rule{
		{
			Name:     RuleHostingerBusinessEmail,
			Match:    ContainsAll("hostinger", "business email"),
			Fragment: hostingerBusinessEmailFragment,
		},
		{
			Name:     RuleHostingerGetStarted,
			Match:    ContainsAll("hostinger", "get started"),
			Fragment: hostingerGetStartedFragment,
		},
	}
}

const hostingerBusinessEmailFragment = `<div class='email-content system-email' style='max-width:100%;font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.5;color:#1f2937;'>
<div class='email-header' style='background:#673de6;color:#ffffff;padding:12px;border-radius:6px 6px 0 0;font-weight:bold;'>Hostinger - Votre messagerie professionnelle est prête</div>
<div class='email-body' style='padding:12px;background:#ffffff;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 6px 6px;'>
<p>Votre boîte email professionnelle a été créée. Configurez-la dans votre client de messagerie avec les paramètres suivants :</p>
<table class='settings' cellpadding='4'>
<tr><td><strong>IMAP (réception)</strong></td><td>imap.hostinger.com</td><td>port 993 (SSL/TLS)</td></tr>
<tr><td><strong>SMTP (envoi)</strong></td><td>smtp.hostinger.com</td><td>port 465 (SSL/TLS)</td></tr>
<tr><td><strong>POP3</strong></td><td>pop.hostinger.com</td><td>port 995 (SSL/TLS)</td></tr>
</table>
<ol>
<li>Ouvrez les paramètres de compte de votre client de messagerie.</li>
<li>Saisissez votre adresse email complète comme identifiant.</li>
<li>Renseignez les serveurs IMAP et SMTP ci-dessus avec le mot de passe de la boîte.</li>
<li>Envoyez un email de test pour valider la configuration.</li>
</ol>
<p>
<a class='button' href='https://hpanel.hostinger.com/emails' style='display:inline-block;background:#673de6;color:#ffffff;padding:8px 14px;border-radius:4px;text-decoration:none;'>Gérer mes emails</a>
<a class='button' href='https://mail.hostinger.com' style='display:inline-block;background:#ffffff;color:#673de6;border:1px solid #673de6;padding:8px 14px;border-radius:4px;text-decoration:none;'>Ouvrir le webmail</a>
</p>
</div>
</div>`

const hostingerGetStartedFragment = `<div class='email-content system-email' style='max-width:100%;font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.5;color:#1f2937;'>
<div class='email-header' style='background:#673de6;color:#ffffff;padding:12px;border-radius:6px 6px 0 0;font-weight:bold;'>Hostinger - Bienvenue, démarrez votre configuration</div>
<div class='email-body' style='padding:12px;background:#ffffff;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 6px 6px;'>
<p>Votre compte d'hébergement est actif. Trois étapes pour commencer :</p>
<ol>
<li>Connectez votre nom de domaine depuis le panneau hPanel.</li>
<li>Créez vos adresses email (serveur entrant imap.hostinger.com, port 993 ; sortant smtp.hostinger.com, port 465).</li>
<li>Activez le certificat SSL gratuit de votre site.</li>
</ol>
<p>
<a class='button' href='https://hpanel.hostinger.com' style='display:inline-block;background:#673de6;color:#ffffff;padding:8px 14px;border-radius:4px;text-decoration:none;'>Accéder à hPanel</a>
<a class='button' href='https://support.hostinger.com' style='display:inline-block;background:#ffffff;color:#673de6;border:1px solid #673de6;padding:8px 14px;border-radius:4px;text-decoration:none;'>Centre d'aide</a>
</p>
</div>
</div>`
