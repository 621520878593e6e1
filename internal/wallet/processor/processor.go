package processor

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/walletobjects/v1"
)

const (
	classSuffix     = "credencial_ganadera"
	backgroundColor = "#0f4a3e"
	saveURLPrefix   = "https://pay.google.com/gp/v/save/"
)

// Credencial is an issued digital producer credential.
type Credencial struct {
	ObjectID string `json:"object_id"`
	ClassID  string `json:"class_id"`
	SaveURL  string `json:"save_url"`
}

// WalletProcessor issues producer ID passes through the Google Wallet API.
// One generic class is shared by all credentials; each producer gets one
// object keyed by their user ID, so re-issuing is idempotent.
type WalletProcessor struct {
	svc      *walletobjects.Service
	issuerID string
	saEmail  string
	saKey    *rsa.PrivateKey
	logger   *observability.Logger
}

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

func New(ctx context.Context, issuerID string, credentialsJSON []byte,
	logger *observability.Logger) (*WalletProcessor, error) {
	if issuerID == "" {
		return nil, errors.New("wallet issuer ID is required")
	}

	var key serviceAccountKey
	if err := json.Unmarshal(credentialsJSON, &key); err != nil {
		return nil, fmt.Errorf("failed to parse wallet credentials: %w", err)
	}
	saKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse wallet signing key: %w", err)
	}

	svc, err := walletobjects.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(walletobjects.WalletObjectIssuerScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet service: %w", err)
	}

	return &WalletProcessor{
		svc:      svc,
		issuerID: issuerID,
		saEmail:  key.ClientEmail,
		saKey:    saKey,
		logger:   logger,
	}, nil
}

// EmitirCredencial issues (or re-issues) the producer's wallet pass and
// returns the link that adds it to Google Wallet.
func (p *WalletProcessor) EmitirCredencial(ctx context.Context, usuario store.Usuario) (Credencial, error) {
	classID := fmt.Sprintf("%s.%s", p.issuerID, classSuffix)
	objectID := fmt.Sprintf("%s.productor_%s", p.issuerID, usuario.ID)

	if err := p.ensureClass(ctx, classID); err != nil {
		return Credencial{}, err
	}
	if err := p.ensureObject(ctx, classID, objectID, usuario); err != nil {
		return Credencial{}, err
	}

	saveURL, err := p.saveLink(classID, objectID)
	if err != nil {
		return Credencial{}, err
	}

	p.logger.Info(observability.WithFields(ctx, observability.Field{Key: "object_id", Value: objectID}),
		"wallet credential issued")

	return Credencial{ObjectID: objectID, ClassID: classID, SaveURL: saveURL}, nil
}

func (p *WalletProcessor) ensureClass(ctx context.Context, classID string) error {
	_, err := p.svc.Genericclass.Get(classID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("failed to fetch wallet class: %w", err)
	}

	class := &walletobjects.GenericClass{Id: classID}
	if _, err := p.svc.Genericclass.Insert(class).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create wallet class: %w", err)
	}
	return nil
}

func (p *WalletProcessor) ensureObject(ctx context.Context, classID, objectID string, usuario store.Usuario) error {
	_, err := p.svc.Genericobject.Get(objectID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("failed to fetch wallet object: %w", err)
	}

	object := &walletobjects.GenericObject{
		Id:                 objectID,
		ClassId:            classID,
		GenericType:        "GENERIC_TYPE_UNSPECIFIED",
		HexBackgroundColor: backgroundColor,
		CardTitle: &walletobjects.LocalizedString{
			DefaultValue: &walletobjects.TranslatedString{Language: "es", Value: "ID Ganadero"},
		},
		Header: &walletobjects.LocalizedString{
			DefaultValue: &walletobjects.TranslatedString{Language: "es", Value: usuario.Nombre},
		},
		Barcode: &walletobjects.Barcode{Type: "QR_CODE", Value: usuario.ID.String()},
		TextModulesData: []*walletobjects.TextModuleData{
			{Id: "clave_upp", Header: "Clave UPP", Body: usuario.UppID},
		},
	}
	if _, err := p.svc.Genericobject.Insert(object).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create wallet object: %w", err)
	}
	return nil
}

// saveLink builds the signed "Add to Google Wallet" URL.
func (p *WalletProcessor) saveLink(classID, objectID string) (string, error) {
	claims := jwt.MapClaims{
		"iss": p.saEmail,
		"aud": "google",
		"typ": "savetowallet",
		"iat": time.Now().Unix(),
		"payload": map[string]interface{}{
			"genericObjects": []map[string]string{
				{"id": objectID, "classId": classID},
			},
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.saKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign save token: %w", err)
	}
	return saveURLPrefix + token, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}
