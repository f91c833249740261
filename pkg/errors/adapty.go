package errors

import (
	"fmt"
	"strconv"
)

// ErrorCode is the numeric code the native SDK reports in the wire error
// branch ("adapty_code").
type ErrorCode int

// Store (StoreKit) codes.
const (
	CodeUnknown                             ErrorCode = 0
	CodeClientInvalid                       ErrorCode = 1
	CodePaymentInvalid                      ErrorCode = 3
	CodePaymentNotAllowed                   ErrorCode = 4
	CodeStoreProductNotAvailable            ErrorCode = 5
	CodeCloudServicePermissionDenied        ErrorCode = 6
	CodeCloudServiceNetworkConnectionFailed ErrorCode = 7
	CodeCloudServiceRevoked                 ErrorCode = 8
	CodePrivacyAcknowledgementRequired      ErrorCode = 9
	CodeUnauthorizedRequestData             ErrorCode = 10
	CodeInvalidOfferIdentifier              ErrorCode = 11
	CodeInvalidSignature                    ErrorCode = 12
	CodeMissingOfferParams                  ErrorCode = 13
	CodeInvalidOfferPrice                   ErrorCode = 14
)

// Android billing codes.
const (
	CodeAdaptyNotInitialized                          ErrorCode = 20
	CodeProductNotFound                               ErrorCode = 22
	CodeCurrentSubscriptionToUpdateNotFoundInHistory  ErrorCode = 24
	CodeBillingServiceTimeout                         ErrorCode = 97
	CodeFeatureNotSupported                           ErrorCode = 98
	CodeBillingServiceDisconnected                    ErrorCode = 99
	CodeBillingServiceUnavailable                     ErrorCode = 102
	CodeBillingUnavailable                            ErrorCode = 103
	CodeDeveloperError                                ErrorCode = 105
	CodeBillingError                                  ErrorCode = 106
	CodeItemAlreadyOwned                              ErrorCode = 107
	CodeItemNotOwned                                  ErrorCode = 108
	CodeBillingNetworkError                           ErrorCode = 112
)

// SDK codes.
const (
	CodeNoProductIDsFound                 ErrorCode = 1000
	CodeProductRequestFailed              ErrorCode = 1002
	CodeCantMakePayments                  ErrorCode = 1003
	CodeNoPurchasesToRestore              ErrorCode = 1004
	CodeCantReadReceipt                   ErrorCode = 1005
	CodeProductPurchaseFailed             ErrorCode = 1006
	CodeRefreshReceiptFailed              ErrorCode = 1010
	CodeReceiveRestoredTransactionsFailed ErrorCode = 1011
	CodeNotActivated                      ErrorCode = 2002
	CodeBadRequest                        ErrorCode = 2003
	CodeServerError                       ErrorCode = 2004
	CodeNetworkFailed                     ErrorCode = 2005
	CodeDecodingFailed                    ErrorCode = 2006
	CodeEncodingFailed                    ErrorCode = 2009
	CodeAnalyticsDisabled                 ErrorCode = 3000
	CodeWrongParam                        ErrorCode = 3001
	CodeActivateOnceError                 ErrorCode = 3005
	CodeProfileWasChanged                 ErrorCode = 3006
	CodeUnsupportedData                   ErrorCode = 3007
	CodePersistingDataError               ErrorCode = 3100
	CodeFetchTimeoutError                 ErrorCode = 3101
	CodeOperationInterrupted              ErrorCode = 9000
)

var codeNames = map[ErrorCode]string{
	CodeUnknown:                             "unknown",
	CodeClientInvalid:                       "clientInvalid",
	CodePaymentInvalid:                      "paymentInvalid",
	CodePaymentNotAllowed:                   "paymentNotAllowed",
	CodeStoreProductNotAvailable:            "storeProductNotAvailable",
	CodeCloudServicePermissionDenied:        "cloudServicePermissionDenied",
	CodeCloudServiceNetworkConnectionFailed: "cloudServiceNetworkConnectionFailed",
	CodeCloudServiceRevoked:                 "cloudServiceRevoked",
	CodePrivacyAcknowledgementRequired:      "privacyAcknowledgementRequired",
	CodeUnauthorizedRequestData:             "unauthorizedRequestData",
	CodeInvalidOfferIdentifier:              "invalidOfferIdentifier",
	CodeInvalidSignature:                    "invalidSignature",
	CodeMissingOfferParams:                  "missingOfferParams",
	CodeInvalidOfferPrice:                   "invalidOfferPrice",

	CodeAdaptyNotInitialized:                         "adaptyNotInitialized",
	CodeProductNotFound:                              "productNotFound",
	CodeCurrentSubscriptionToUpdateNotFoundInHistory: "currentSubscriptionToUpdateNotFoundInHistory",
	CodeBillingServiceTimeout:                        "billingServiceTimeout",
	CodeFeatureNotSupported:                          "featureNotSupported",
	CodeBillingServiceDisconnected:                   "billingServiceDisconnected",
	CodeBillingServiceUnavailable:                    "billingServiceUnavailable",
	CodeBillingUnavailable:                           "billingUnavailable",
	CodeDeveloperError:                               "developerError",
	CodeBillingError:                                 "billingError",
	CodeItemAlreadyOwned:                             "itemAlreadyOwned",
	CodeItemNotOwned:                                 "itemNotOwned",
	CodeBillingNetworkError:                          "billingNetworkError",

	CodeNoProductIDsFound:                 "noProductIDsFound",
	CodeProductRequestFailed:              "productRequestFailed",
	CodeCantMakePayments:                  "cantMakePayments",
	CodeNoPurchasesToRestore:              "noPurchasesToRestore",
	CodeCantReadReceipt:                   "cantReadReceipt",
	CodeProductPurchaseFailed:             "productPurchaseFailed",
	CodeRefreshReceiptFailed:              "refreshReceiptFailed",
	CodeReceiveRestoredTransactionsFailed: "receiveRestoredTransactionsFailed",
	CodeNotActivated:                      "notActivated",
	CodeBadRequest:                        "badRequest",
	CodeServerError:                       "serverError",
	CodeNetworkFailed:                     "networkFailed",
	CodeDecodingFailed:                    "decodingFailed",
	CodeEncodingFailed:                    "encodingFailed",
	CodeAnalyticsDisabled:                 "analyticsDisabled",
	CodeWrongParam:                        "wrongParam",
	CodeActivateOnceError:                 "activateOnceError",
	CodeProfileWasChanged:                 "profileWasChanged",
	CodeUnsupportedData:                   "unsupportedData",
	CodePersistingDataError:               "persistingDataError",
	CodeFetchTimeoutError:                 "fetchTimeoutError",
	CodeOperationInterrupted:              "operationInterrupted",
}

// String returns the code's symbolic name, or "Unknown code: N".
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown code: " + strconv.Itoa(int(c))
}

// CodeByName looks up a code by its symbolic name.
func CodeByName(name string) (ErrorCode, bool) {
	for code, n := range codeNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// AdaptyError is an error reported by the native SDK through the wire error
// branch.
type AdaptyError struct {
	Code    ErrorCode
	Message string
	Detail  string
}

// Error formats the error as "#<code> (<name>): <message>".
func (e *AdaptyError) Error() string {
	return fmt.Sprintf("#%d (%s): %s", int(e.Code), e.Code, e.Message)
}

// Is matches another *AdaptyError with the same code.
func (e *AdaptyError) Is(target error) bool {
	if t, ok := target.(*AdaptyError); ok {
		return e.Code == t.Code
	}
	return false
}

// AsAdaptyError finds the first *AdaptyError in err's chain.
func AsAdaptyError(err error) (*AdaptyError, bool) {
	for err != nil {
		if e, ok := err.(*AdaptyError); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
