package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
)

// ParameterGetter is the part of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterGetter builds an SSM client from the default AWS credential chain.
func NewParameterGetter(ctx context.Context, region string) (ParameterGetter, error) {
	awsConfig, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}
	return ssm.NewFromConfig(awsConfig), nil
}

// ResolveJWTSecret returns the signing secret, fetching it from Parameter
// Store when JWT_SECRET_SSM_PARAMETER is set. A blank result is an error.
func (c *Config) ResolveJWTSecret(ctx context.Context, getter ParameterGetter) error {
	if c.Auth.JWTSecretParameter != "" && getter != nil {
		out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(c.Auth.JWTSecretParameter),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return errs.NewConfigError("JWT_SECRET_SSM_PARAMETER", err)
		}
		if out.Parameter != nil {
			c.Auth.JWTSecret = aws.ToString(out.Parameter.Value)
		}
		log.Info().Str("parameter", c.Auth.JWTSecretParameter).Msg("loaded JWT secret from SSM")
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errs.NewEnvironmentVariableError("JWT_SECRET")
	}
	return nil
}
